package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	lru "github.com/hashicorp/golang-lru/v2"

	"poolLens/internal/model"
)

const tsCacheSize = 8192

// Client wraps go-ethereum RPC and provides typed accessors for block
// metadata and contract reads. Block timestamps are cached so repeated
// probes of the same block cost a single round-trip.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	tsCache   *lru.Cache[uint64, uint64]
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, wrapTransport(err)
	}

	cache, err := lru.New[uint64, uint64](tsCacheSize)
	if err != nil {
		rpcClient.Close()
		return nil, err
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		tsCache:   cache,
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// ChainID returns the chain ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.ethClient.ChainID(ctx)
	if err != nil {
		return nil, wrapTransport(err)
	}
	return id, nil
}

// LatestBlock returns the chain head as a BlockRef.
func (c *Client) LatestBlock(ctx context.Context) (model.BlockRef, error) {
	header, err := c.ethClient.HeaderByNumber(ctx, nil)
	if err != nil {
		return model.BlockRef{}, wrapTransport(err)
	}
	ref := model.BlockRef{Number: header.Number.Uint64(), Timestamp: header.Time}
	c.tsCache.Add(ref.Number, ref.Timestamp)
	return ref, nil
}

// BlockRefByNumber returns number and timestamp for an arbitrary block.
func (c *Client) BlockRefByNumber(ctx context.Context, number uint64) (model.BlockRef, error) {
	ts, err := c.BlockTimestamp(ctx, number)
	if err != nil {
		return model.BlockRef{}, err
	}
	return model.BlockRef{Number: number, Timestamp: ts}, nil
}

// BlockTimestamp returns the block timestamp, using the LRU cache.
func (c *Client) BlockTimestamp(ctx context.Context, number uint64) (uint64, error) {
	if ts, ok := c.tsCache.Get(number); ok {
		return ts, nil
	}

	header, err := c.ethClient.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return 0, wrapTransport(err)
	}

	c.tsCache.Add(number, header.Time)
	return header.Time, nil
}

// FilterLogs returns logs in the given range for an address and topic0 filter.
func (c *Client) FilterLogs(
	ctx context.Context,
	fromBlock uint64,
	toBlock uint64,
	address common.Address,
	topic0 []common.Hash,
) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{address},
	}
	if len(topic0) > 0 {
		query.Topics = [][]common.Hash{topic0}
	}
	logs, err := c.ethClient.FilterLogs(ctx, query)
	if err != nil {
		return nil, wrapTransport(err)
	}
	return logs, nil
}

// CallContract performs an eth_call for a contract method.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	resp, err := c.ethClient.CallContract(ctx, msg, blockNumber)
	if err != nil {
		return nil, wrapCall(err)
	}
	return resp, nil
}
