package dex

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolLens/internal/chain"
	"poolLens/internal/model"
)

// FetchPoolState reads the pool's state snapshot: token addresses, fee
// tier, slot0 and in-range liquidity. All reads are point-in-time at
// the node's latest block.
func FetchPoolState(ctx context.Context, chainClient *chain.Client, pool common.Address) (model.PoolState, error) {
	if chainClient == nil {
		return model.PoolState{}, fmt.Errorf("chain client is nil")
	}

	parsed, err := PoolABI()
	if err != nil {
		return model.PoolState{}, fmt.Errorf("parse pool abi: %w", err)
	}

	state := model.PoolState{Address: pool}

	values, err := callMethod(ctx, chainClient, pool, parsed, "token0")
	if err != nil {
		return model.PoolState{}, err
	}
	if state.Token0, err = asAddress(values[0]); err != nil {
		return model.PoolState{}, fmt.Errorf("token0: %w", err)
	}

	values, err = callMethod(ctx, chainClient, pool, parsed, "token1")
	if err != nil {
		return model.PoolState{}, err
	}
	if state.Token1, err = asAddress(values[0]); err != nil {
		return model.PoolState{}, fmt.Errorf("token1: %w", err)
	}

	values, err = callMethod(ctx, chainClient, pool, parsed, "fee")
	if err != nil {
		return model.PoolState{}, err
	}
	feeInt, err := asBigInt(values[0])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("fee: %w", err)
	}
	state.FeePPM = uint32(feeInt.Uint64())

	values, err = callMethod(ctx, chainClient, pool, parsed, "liquidity")
	if err != nil {
		return model.PoolState{}, err
	}
	if state.Liquidity, err = asBigInt(values[0]); err != nil {
		return model.PoolState{}, fmt.Errorf("liquidity: %w", err)
	}

	values, err = callMethod(ctx, chainClient, pool, parsed, "slot0")
	if err != nil {
		return model.PoolState{}, err
	}
	if len(values) < 2 {
		return model.PoolState{}, fmt.Errorf("slot0 returned %d values", len(values))
	}
	if state.SqrtPriceX96, err = asBigInt(values[0]); err != nil {
		return model.PoolState{}, fmt.Errorf("slot0 sqrtPriceX96: %w", err)
	}
	tickInt, err := asBigInt(values[1])
	if err != nil {
		return model.PoolState{}, fmt.Errorf("slot0 tick: %w", err)
	}
	if state.Tick, err = int24FromBig(tickInt); err != nil {
		return model.PoolState{}, fmt.Errorf("slot0 tick: %w", err)
	}

	return state, nil
}

// FetchTokenInfo loads ERC20 metadata and the pool's current balance of
// the token.
func FetchTokenInfo(ctx context.Context, chainClient *chain.Client, token, pool common.Address, logger *zap.Logger) (model.TokenInfo, error) {
	info := model.TokenInfo{Address: token}
	if chainClient == nil {
		return info, fmt.Errorf("chain client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stringABI, err := erc20ABIStringInstance()
	if err != nil {
		return info, fmt.Errorf("parse erc20 abi: %w", err)
	}

	values, err := callMethod(ctx, chainClient, token, stringABI, "decimals")
	if err != nil {
		return info, err
	}
	if info.Decimals, err = asUint8(values[0]); err != nil {
		return info, fmt.Errorf("decimals: %w", err)
	}

	info.Symbol = fetchSymbol(ctx, chainClient, token, stringABI, logger)

	values, err = callMethod(ctx, chainClient, token, stringABI, "balanceOf", pool)
	if err != nil {
		return info, err
	}
	if info.PoolBalance, err = asBigInt(values[0]); err != nil {
		return info, fmt.Errorf("balanceOf: %w", err)
	}

	return info, nil
}

func fetchSymbol(ctx context.Context, chainClient *chain.Client, token common.Address, stringABI abi.ABI, logger *zap.Logger) string {
	if values, err := callMethod(ctx, chainClient, token, stringABI, "symbol"); err == nil {
		if symbol, ok := values[0].(string); ok {
			return symbol
		}
	}

	bytes32ABI, err := erc20ABIBytes32Instance()
	if err != nil {
		logger.Debug("parse bytes32 abi failed", zap.Error(err))
		return ""
	}
	if values, err := callMethod(ctx, chainClient, token, bytes32ABI, "symbol"); err == nil {
		if symbol, ok := bytes32ToString(values[0]); ok {
			return symbol
		}
	} else {
		logger.Debug("symbol call failed", zap.String("token", token.Hex()), zap.Error(err))
	}
	return ""
}

func callMethod(ctx context.Context, chainClient *chain.Client, target common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &target, Data: data}
	resp, err := chainClient.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return values, nil
}
