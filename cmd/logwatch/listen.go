package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/logwatch/pkg/logwatch/event"
	"github.com/randalmurphal/logwatch/pkg/logwatch/handlers"
	"github.com/randalmurphal/logwatch/pkg/logwatch/listener"
	"github.com/randalmurphal/logwatch/pkg/logwatch/observability"
	"github.com/randalmurphal/logwatch/pkg/logwatch/transport"
)

var flagEndpoint string

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Connect to the event feed and dispatch events until the stream ends",
	Long: `Connect to the websocket event feed and route every inbound event to the
handlers registered for its type. The process exits 0 on a clean stream
end or interrupt, and 1 on a connect or transport fault.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagEndpoint != "" {
			cfg.Listener.Endpoint = flagEndpoint
		}
		if err := cfg.Listener.Validate(); err != nil {
			return err
		}

		metrics := observability.NewMetricsRecorder()

		registry := event.NewRegistry(
			event.WithLogger(logger),
			event.WithOnError(func(evt event.Event, handler string, err error) {
				metrics.RecordHandlerError(cmd.Context(), evt.Type(), handler)
			}),
		)
		handlers.RegisterAll(registry, logger)

		dialer := &transport.Dialer{
			HandshakeTimeout: cfg.Listener.HandshakeTimeout.Std(),
			ReadLimit:        cfg.Listener.ReadLimit,
		}

		l := listener.New(dialer, registry,
			listener.WithLogger(logger),
			listener.WithMetrics(metrics),
			listener.WithSpanManager(observability.NewSpanManager()),
		)

		// SIGINT/SIGTERM end the session gracefully (exit 0).
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return l.Listen(ctx, cfg.Listener.Endpoint)
	},
}

func init() {
	listenCmd.Flags().StringVarP(&flagEndpoint, "endpoint", "e", "", "websocket endpoint of the event feed")
}
