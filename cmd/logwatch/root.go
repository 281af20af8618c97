package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/logwatch/pkg/logwatch/config"
	"github.com/randalmurphal/logwatch/pkg/logwatch/observability"
)

var (
	flagConfig   string
	flagLogLevel string
	flagLogJSON  bool

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "logwatch",
	Short:         "Tail a log-server event feed and dispatch events to handlers",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; explicit env vars still apply.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}

		logger = observability.NewLogger(flagLogLevel, flagLogJSON)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "emit JSON logs")

	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(benchCmd)
}
