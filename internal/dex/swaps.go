package dex

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"poolLens/internal/chain"
	"poolLens/internal/model"
)

// SwapTopic returns topic0 of the pool Swap event.
func SwapTopic() (common.Hash, error) {
	parsed, err := PoolABI()
	if err != nil {
		return common.Hash{}, err
	}
	return parsed.Events["Swap"].ID, nil
}

// FetchSwaps returns decoded Swap events emitted by the pool within the
// inclusive block range, in log order.
func FetchSwaps(ctx context.Context, chainClient *chain.Client, pool common.Address, fromBlock, toBlock uint64) ([]model.SwapEvent, error) {
	if chainClient == nil {
		return nil, fmt.Errorf("chain client is nil")
	}

	topic, err := SwapTopic()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}

	logs, err := chainClient.FilterLogs(ctx, fromBlock, toBlock, pool, []common.Hash{topic})
	if err != nil {
		return nil, err
	}

	swaps := make([]model.SwapEvent, 0, len(logs))
	for _, log := range logs {
		if log.Removed {
			continue
		}
		swap, err := DecodeSwap(log)
		if err != nil {
			return nil, fmt.Errorf("decode swap %s:%d: %w", log.TxHash.Hex(), log.Index, err)
		}
		swaps = append(swaps, swap)
	}
	return swaps, nil
}

// DecodeSwap converts a raw Swap log into a SwapEvent.
func DecodeSwap(log types.Log) (model.SwapEvent, error) {
	parsed, err := PoolABI()
	if err != nil {
		return model.SwapEvent{}, err
	}
	event := parsed.Events["Swap"]

	indexed := indexedArguments(event.Inputs)
	if len(log.Topics) != len(indexed)+1 {
		return model.SwapEvent{}, fmt.Errorf("expected %d topics, got %d", len(indexed)+1, len(log.Topics))
	}

	var addrs struct {
		Sender    common.Address
		Recipient common.Address
	}
	if err := abi.ParseTopics(&addrs, indexed, log.Topics[1:]); err != nil {
		return model.SwapEvent{}, fmt.Errorf("parse topics: %w", err)
	}

	values, err := event.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return model.SwapEvent{}, fmt.Errorf("unpack swap: %w", err)
	}
	if len(values) != 5 {
		return model.SwapEvent{}, fmt.Errorf("unexpected swap values: %d", len(values))
	}

	swap := model.SwapEvent{
		Sender:      addrs.Sender,
		Recipient:   addrs.Recipient,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		LogIndex:    log.Index,
	}

	if swap.Amount0, err = asBigInt(values[0]); err != nil {
		return model.SwapEvent{}, err
	}
	if swap.Amount1, err = asBigInt(values[1]); err != nil {
		return model.SwapEvent{}, err
	}
	if swap.SqrtPriceX96, err = asBigInt(values[2]); err != nil {
		return model.SwapEvent{}, err
	}
	if swap.Liquidity, err = asBigInt(values[3]); err != nil {
		return model.SwapEvent{}, err
	}
	tickInt, err := asBigInt(values[4])
	if err != nil {
		return model.SwapEvent{}, err
	}
	if swap.Tick, err = int24FromBig(tickInt); err != nil {
		return model.SwapEvent{}, err
	}

	return swap, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}
