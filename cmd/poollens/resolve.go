package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolLens/internal/blocktime"
	"poolLens/internal/chain"
	"poolLens/internal/config"
)

func runResolve(cmd *cobra.Command, _ []string) error {
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

	timeArg, _ := cmd.Flags().GetString("time")
	if timeArg == "" {
		return fmt.Errorf("target time is required")
	}
	target, err := config.ParseTimestamp(timeArg)
	if err != nil {
		return fmt.Errorf("parse time: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	latest, err := chainClient.LatestBlock(ctx)
	if err != nil {
		return fmt.Errorf("get latest block: %w", err)
	}

	resolver := blocktime.NewResolver(chainClient.BlockTimestamp, cfg.Stride)

	started := time.Now()
	number, err := resolver.FirstAtOrAfter(ctx, target, latest.Number)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	ref, err := chainClient.BlockRefByNumber(ctx, number)
	if err != nil {
		return fmt.Errorf("resolved block header: %w", err)
	}

	logger.Info("resolved",
		zap.Uint64("target", target),
		zap.Uint64("latest", latest.Number),
		zap.Duration("took", time.Since(started)),
	)

	fmt.Printf("Block #%d at %s\n", ref.Number, ref.Time().Format(time.RFC3339))
	return nil
}
