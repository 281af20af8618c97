// Package bench is the load-generation tool: it issues concurrent HTTP
// log-creation requests against a target and computes latency statistics.
package bench

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/logwatch/pkg/logwatch/config"
	lwerrors "github.com/randalmurphal/logwatch/pkg/logwatch/errors"
	"github.com/randalmurphal/logwatch/pkg/logwatch/observability"
)

// Scenario is one load profile.
type Scenario struct {
	Name     string
	Requests int
	Workers  int
}

// Result is the outcome of one bench run.
type Result struct {
	RunID      string
	Scenario   Scenario
	StartedAt  time.Time
	Elapsed    time.Duration
	Successful int
	Failed     int
	Stats      Stats
}

// Runner executes bench scenarios against the configured target.
type Runner struct {
	cfg     config.BenchConfig
	client  *http.Client
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	retry   lwerrors.RetryConfig
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) RunnerOption {
	return func(r *Runner) {
		r.client = c
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// NewRunner creates a bench runner.
func NewRunner(cfg config.BenchConfig, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		metrics: observability.NoopMetrics{},
		retry:   lwerrors.NoRetry,
	}
	if cfg.Retry {
		r.retry = lwerrors.DefaultRetry
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run executes one scenario: Workers goroutines drain a queue of Requests
// numbered requests, each timed individually.
func (r *Runner) Run(ctx context.Context, scenario Scenario) (*Result, error) {
	if scenario.Requests <= 0 || scenario.Workers <= 0 {
		return nil, fmt.Errorf("scenario %q: requests and workers must be positive", scenario.Name)
	}

	result := &Result{
		RunID:     uuid.New().String(),
		Scenario:  scenario,
		StartedAt: time.Now(),
	}

	r.logger.Info("starting benchmark",
		slog.String("run_id", result.RunID),
		slog.String("scenario", scenario.Name),
		slog.Int("requests", scenario.Requests),
		slog.Int("workers", scenario.Workers))

	var (
		mu        sync.Mutex
		latencies []float64
		completed int
	)

	jobs := make(chan int)
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < scenario.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				latencyMs, err := r.send(ctx, n)

				mu.Lock()
				if err != nil {
					result.Failed++
					r.logger.Warn("request failed",
						slog.Int("request", n),
						slog.String("error", err.Error()))
				} else {
					result.Successful++
					latencies = append(latencies, latencyMs)
				}
				completed++
				if completed%100 == 0 {
					r.logger.Info("progress",
						slog.Int("completed", completed),
						slog.Int("total", scenario.Requests))
				}
				mu.Unlock()
			}
		}()
	}

	for n := 0; n < scenario.Requests; n++ {
		select {
		case jobs <- n:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	result.Elapsed = time.Since(start)
	result.Stats = ComputeStats(latencies, result.Successful, result.Elapsed)

	r.logger.Info("benchmark complete",
		slog.String("run_id", result.RunID),
		slog.Int("successful", result.Successful),
		slog.Int("failed", result.Failed),
		slog.Float64("throughput", result.Stats.Throughput))

	return result, nil
}

// send issues one timed request. It returns the latency in milliseconds of
// the final attempt.
func (r *Runner) send(ctx context.Context, n int) (float64, error) {
	res := lwerrors.WithRetryContext(ctx, r.retry, func(ctx context.Context) (float64, error) {
		body, err := json.Marshal(r.payload(n))
		if err != nil {
			return 0, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Target, bytes.NewReader(body))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", "application/json")

		start := time.Now()
		resp, err := r.client.Do(req)
		elapsed := time.Since(start)

		if err != nil {
			r.metrics.RecordBenchRequest(ctx, elapsed, false)
			return 0, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			r.metrics.RecordBenchRequest(ctx, elapsed, false)
			return 0, &lwerrors.HTTPError{
				StatusCode: resp.StatusCode,
				Endpoint:   r.cfg.Target,
				Message:    "unexpected status",
			}
		}

		r.metrics.RecordBenchRequest(ctx, elapsed, true)
		return float64(elapsed) / float64(time.Millisecond), nil
	})
	return res.Value, res.Err
}

// payload builds one log-creation request body.
func (r *Runner) payload(n int) map[string]any {
	return map[string]any{
		"schema_id": r.cfg.SchemaID,
		"log_data": map[string]any{
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
			"level":      "INFO",
			"message":    fmt.Sprintf("Benchmark request %d", n),
			"request_id": fmt.Sprintf("bench-%d", n),
		},
	}
}

// DefaultScenarios is the standard load ladder.
var DefaultScenarios = []Scenario{
	{Name: "light", Requests: 100, Workers: 10},
	{Name: "medium", Requests: 1000, Workers: 50},
	{Name: "heavy", Requests: 1000, Workers: 100},
	{Name: "stress", Requests: 2000, Workers: 200},
}

// ScenariosFromConfig converts configured scenarios, falling back to the
// default ladder when none are configured.
func ScenariosFromConfig(cfgs []config.ScenarioConfig) []Scenario {
	if len(cfgs) == 0 {
		return DefaultScenarios
	}
	out := make([]Scenario, 0, len(cfgs))
	for _, c := range cfgs {
		out = append(out, Scenario{Name: c.Name, Requests: c.Requests, Workers: c.Workers})
	}
	return out
}
