package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/calculator"
	"github.com/cme-savings-service/internal/config"
	"github.com/cme-savings-service/internal/pkg/logger"
)

var (
	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "cmecalc",
	Short:         "Offline CME and savings calculator",
	Long:          "Computes CME points, required sessions, cost savings and Web Mercator tiles without the HTTP service.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		l, err := logger.New(cfg.Log.Level, "cmecalc")
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// rates - ставки из конфигурации
func rates() calculator.Rates {
	return calculator.Rates{
		HourlyRate:                cfg.Calculator.HourlyRate,
		PerKmRate:                 cfg.Calculator.PerKmRate,
		AverageSpeedKmh:           cfg.Calculator.AverageSpeedKmh,
		TraditionalFeePerSession:  cfg.Calculator.TraditionalFeePerSession,
		OnlineSubscriptionPerYear: cfg.Calculator.OnlineSubscriptionPerYear,
		OnlinePracticeTimeShare:   cfg.Calculator.OnlinePracticeTimeShare,
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
