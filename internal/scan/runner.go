package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"poolLens/internal/analytics"
	"poolLens/internal/blocktime"
	"poolLens/internal/chain"
	"poolLens/internal/dex"
	"poolLens/internal/model"
	"poolLens/internal/oracle"
)

// Config holds runtime settings for one analytics pass.
type Config struct {
	Pool         common.Address
	Window       time.Duration
	Stride       uint64
	BatchSize    uint64
	MaxRetries   int
	RetryBackoff time.Duration
}

// Runner performs a single read-compute pass over a pool: it resolves
// the trailing window onto block numbers, snapshots pool and token
// state, pulls swaps and oracle prices, and derives the report.
type Runner struct {
	cfg    Config
	chain  *chain.Client
	oracle *oracle.Client
	logger *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg Config, chainClient *chain.Client, oracleClient *oracle.Client, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Window <= 0 {
		cfg.Window = 24 * time.Hour
	}
	if cfg.Stride == 0 {
		cfg.Stride = blocktime.DefaultStride
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 2000
	}
	return &Runner{
		cfg:    cfg,
		chain:  chainClient,
		oracle: oracleClient,
		logger: logger,
	}
}

// Run executes the pass and returns the assembled report.
func (r *Runner) Run(ctx context.Context) (*model.PoolReport, error) {
	if r.chain == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	if r.oracle == nil {
		return nil, fmt.Errorf("oracle client is nil")
	}

	chainID, err := r.chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	r.logger.Info("connected", zap.String("chain_id", chainID.String()))

	latest, err := r.latestBlockWithRetry(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest block: %w", err)
	}

	target := uint64(time.Now().UTC().Add(-r.cfg.Window).Unix())
	resolver := blocktime.NewResolver(r.probeWithRetry, r.cfg.Stride)
	fromNumber, err := resolver.FirstAtOrAfter(ctx, target, latest.Number)
	if err != nil {
		return nil, fmt.Errorf("resolve window start: %w", err)
	}
	fromTimestamp, err := r.probeWithRetry(ctx, fromNumber)
	if err != nil {
		return nil, fmt.Errorf("window start header: %w", err)
	}
	fromBlock := model.BlockRef{Number: fromNumber, Timestamp: fromTimestamp}

	r.logger.Info("window resolved",
		zap.Uint64("from_block", fromBlock.Number),
		zap.Uint64("to_block", latest.Number),
		zap.Time("from_time", fromBlock.Time()),
		zap.Time("to_time", latest.Time()),
	)

	state, err := dex.FetchPoolState(ctx, r.chain, r.cfg.Pool)
	if err != nil {
		return nil, fmt.Errorf("pool state: %w", err)
	}

	token0, err := dex.FetchTokenInfo(ctx, r.chain, state.Token0, r.cfg.Pool, r.logger)
	if err != nil {
		return nil, fmt.Errorf("token0 info: %w", err)
	}
	token1, err := dex.FetchTokenInfo(ctx, r.chain, state.Token1, r.cfg.Pool, r.logger)
	if err != nil {
		return nil, fmt.Errorf("token1 info: %w", err)
	}

	r.logger.Info("pool snapshot",
		zap.String("pool", r.cfg.Pool.Hex()),
		zap.String("token0", token0.Symbol),
		zap.String("token1", token1.Symbol),
		zap.Uint32("fee_ppm", state.FeePPM),
		zap.Float64("fee_fraction", state.FeeFraction()),
	)

	if !analytics.PairSupported(token0.Symbol, token1.Symbol) {
		r.logger.Warn("token pair outside reference set, TVL and volume degrade to zero",
			zap.String("symbol0", token0.Symbol),
			zap.String("symbol1", token1.Symbol),
		)
	}

	prices, err := r.oracle.FetchUSDPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("oracle prices: %w", err)
	}

	swaps, err := r.fetchWindowSwaps(ctx, fromBlock.Number, latest.Number)
	if err != nil {
		return nil, fmt.Errorf("fetch swaps: %w", err)
	}

	metrics := analytics.Compute(state, token0, token1, prices, swaps)

	return &model.PoolReport{
		PoolAddress:   r.cfg.Pool.Hex(),
		Symbol0:       token0.Symbol,
		Symbol1:       token1.Symbol,
		Tick:          state.Tick,
		Liquidity:     state.Liquidity.String(),
		Price0Per1:    metrics.Price0Per1,
		Price1Per0:    metrics.Price1Per0,
		Balance0:      metrics.Balance0,
		Balance1:      metrics.Balance1,
		FromBlock:     fromBlock,
		ToBlock:       latest,
		SwapCount:     metrics.SwapCount,
		TVLUSD:        metrics.TVLUSD,
		VolumeUSD:     metrics.VolumeUSD,
		DailyFeesUSD:  metrics.DailyFeesUSD,
		YearlyFeesUSD: metrics.YearlyFeesUSD,
		APRPercent:    metrics.APRPercent,
		PairSupported: metrics.PairSupported,
	}, nil
}

func (r *Runner) fetchWindowSwaps(ctx context.Context, from, to uint64) ([]model.SwapEvent, error) {
	ranges, err := SplitRange(from, to, r.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	swaps := make([]model.SwapEvent, 0, 256)
	for _, blockRange := range ranges {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var batch []model.SwapEvent
		err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
			var err error
			batch, err = dex.FetchSwaps(ctx, r.chain, r.cfg.Pool, blockRange.From, blockRange.To)
			if err != nil {
				r.logger.Warn("fetch swaps failed",
					zap.Error(err),
					zap.Uint64("from", blockRange.From),
					zap.Uint64("to", blockRange.To),
				)
			}
			return err
		})
		if err != nil {
			return nil, err
		}

		swaps = append(swaps, batch...)
		r.logger.Debug("swap batch",
			zap.Uint64("from", blockRange.From),
			zap.Uint64("to", blockRange.To),
			zap.Int("swaps", len(batch)),
		)
	}

	return swaps, nil
}

func (r *Runner) latestBlockWithRetry(ctx context.Context) (model.BlockRef, error) {
	var ref model.BlockRef
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		ref, err = r.chain.LatestBlock(ctx)
		if err != nil {
			r.logger.Warn("latest block fetch failed", zap.Error(err))
		}
		return err
	})
	return ref, err
}

func (r *Runner) probeWithRetry(ctx context.Context, number uint64) (uint64, error) {
	var ts uint64
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		ts, err = r.chain.BlockTimestamp(ctx, number)
		if err != nil {
			r.logger.Warn("block timestamp fetch failed", zap.Error(err), zap.Uint64("block_number", number))
		}
		return err
	})
	return ts, err
}
