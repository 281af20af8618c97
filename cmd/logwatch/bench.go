package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/logwatch/pkg/logwatch/bench"
	"github.com/randalmurphal/logwatch/pkg/logwatch/observability"
)

var (
	flagBenchTarget   string
	flagBenchRequests int
	flagBenchWorkers  int
	flagBenchAll      bool
	flagBenchDB       string
	flagBenchHistory  int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Generate load against the log-creation endpoint and report latency statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagBenchTarget != "" {
			cfg.Bench.Target = flagBenchTarget
		}
		if flagBenchDB != "" {
			cfg.Bench.ResultsDB = flagBenchDB
		}
		if err := cfg.Bench.Validate(); err != nil {
			return err
		}

		var store *bench.Store
		if cfg.Bench.ResultsDB != "" {
			var err error
			store, err = bench.NewStore(cfg.Bench.ResultsDB)
			if err != nil {
				return err
			}
			defer store.Close()
		}

		if flagBenchHistory > 0 {
			return printHistory(store, flagBenchHistory)
		}

		runner := bench.NewRunner(cfg.Bench,
			bench.WithLogger(logger),
			bench.WithMetrics(observability.NewMetricsRecorder()),
		)

		scenarios := []bench.Scenario{{
			Name:     "custom",
			Requests: flagBenchRequests,
			Workers:  flagBenchWorkers,
		}}
		if flagBenchAll {
			scenarios = bench.ScenariosFromConfig(cfg.Bench.Scenarios)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		for _, scenario := range scenarios {
			result, err := runner.Run(ctx, scenario)
			if err != nil {
				return err
			}

			bench.WriteReport(os.Stdout, result, cfg.Bench.Threshold)

			if store != nil {
				if err := store.Save(result); err != nil {
					logger.Warn("failed to record run", "error", err)
				}
			}
		}
		return nil
	},
}

func printHistory(store *bench.Store, limit int) error {
	if store == nil {
		return fmt.Errorf("no results database configured")
	}
	runs, err := store.List(limit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Printf("%s  %-8s  ok=%-6d failed=%-4d  %.2f req/s  p95=%.2fms  %s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Scenario, run.Successful, run.Failed,
			run.Throughput, run.P95, run.RunID)
	}
	return nil
}

func init() {
	benchCmd.Flags().StringVarP(&flagBenchTarget, "target", "t", "", "HTTP endpoint accepting log creation requests")
	benchCmd.Flags().IntVarP(&flagBenchRequests, "requests", "n", 100, "total requests to send")
	benchCmd.Flags().IntVarP(&flagBenchWorkers, "workers", "w", 10, "concurrent workers")
	benchCmd.Flags().BoolVar(&flagBenchAll, "all", false, "run the configured scenario ladder")
	benchCmd.Flags().StringVar(&flagBenchDB, "db", "", "sqlite file for run history")
	benchCmd.Flags().IntVar(&flagBenchHistory, "history", 0, "print the last N recorded runs and exit")
}
