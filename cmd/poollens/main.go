package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "poollens",
		Short:        "AMM pool analytics reporter",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Report pool price, TVL, 24h volume, fees and APR",
		RunE:  runReport,
	}

	reportCmd.Flags().String("rpc", "", "chain RPC URL")
	reportCmd.Flags().String("pool", "", "pool contract address")
	reportCmd.Flags().String("oracle-url", "", "price oracle base URL (default CoinGecko)")
	reportCmd.Flags().Duration("window", 24*time.Hour, "trailing volume window")
	reportCmd.Flags().Uint64("stride", 5000, "coarse block scan stride")
	reportCmd.Flags().Uint64("batch-size", 2000, "blocks per log query")
	reportCmd.Flags().Duration("http-timeout", 10*time.Second, "oracle HTTP timeout")
	reportCmd.Flags().Int("max-retries", 5, "maximum retry attempts per remote call")
	reportCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	reportCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(reportCmd)

	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a timestamp to the first block at or after it",
		RunE:  runResolve,
	}

	resolveCmd.Flags().String("rpc", "", "chain RPC URL")
	resolveCmd.Flags().String("time", "", "target time (unix seconds or RFC3339)")
	resolveCmd.Flags().Uint64("stride", 5000, "coarse block scan stride")
	resolveCmd.Flags().Int("max-retries", 5, "maximum retry attempts per remote call")
	resolveCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	resolveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(resolveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
