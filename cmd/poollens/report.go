package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolLens/internal/chain"
	"poolLens/internal/config"
	"poolLens/internal/oracle"
	"poolLens/internal/report"
	"poolLens/internal/scan"
)

func runReport(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.Pool == "" {
		return fmt.Errorf("pool address is required")
	}
	if !common.IsHexAddress(cfg.Pool) {
		return fmt.Errorf("invalid pool address: %s", cfg.Pool)
	}
	pool := common.HexToAddress(cfg.Pool)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	oracleClient := oracle.NewClient(cfg.OracleURL, oracle.DefaultRegistry(), cfg.HTTPTimeout, logger)

	runner := scan.NewRunner(scan.Config{
		Pool:         pool,
		Window:       cfg.Window,
		Stride:       cfg.Stride,
		BatchSize:    cfg.BatchSize,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, chainClient, oracleClient, logger)

	logger.Info("report start",
		zap.String("pool", pool.Hex()),
		zap.Duration("window", cfg.Window),
		zap.Uint64("stride", cfg.Stride),
		zap.Uint64("batch_size", cfg.BatchSize),
	)

	rep, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	return report.Render(os.Stdout, *rep)
}
