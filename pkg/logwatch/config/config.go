// Package config loads logwatch configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full logwatch configuration.
type Config struct {
	Listener ListenerConfig `yaml:"listener"`
	Bench    BenchConfig    `yaml:"bench"`
}

// ListenerConfig configures the event listener. Endpoint is the only
// required option; everything else has a working default.
type ListenerConfig struct {
	// Endpoint is the websocket address of the event feed.
	Endpoint string `yaml:"endpoint"`

	// HandshakeTimeout bounds connection establishment.
	HandshakeTimeout Duration `yaml:"handshake_timeout"`

	// ReadLimit is the maximum inbound message size in bytes.
	ReadLimit int64 `yaml:"read_limit"`
}

// BenchConfig configures the load-generation tool.
type BenchConfig struct {
	// Target is the HTTP endpoint that accepts log creation requests.
	Target string `yaml:"target"`

	// SchemaID is sent with every generated log record.
	SchemaID string `yaml:"schema_id"`

	// ResultsDB is the sqlite file recording run history.
	// Empty disables recording.
	ResultsDB string `yaml:"results_db"`

	// Threshold is the required throughput in requests per second.
	Threshold float64 `yaml:"threshold"`

	// Retry enables retrying transient HTTP failures. Off by default so
	// latency numbers reflect single attempts.
	Retry bool `yaml:"retry"`

	// Scenarios to run with `bench --all`.
	Scenarios []ScenarioConfig `yaml:"scenarios"`
}

// ScenarioConfig is one load scenario.
type ScenarioConfig struct {
	Name     string `yaml:"name"`
	Requests int    `yaml:"requests"`
	Workers  int    `yaml:"workers"`
}

// Duration wraps time.Duration with YAML support for strings like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listener: ListenerConfig{
			Endpoint:         "ws://localhost:8081/ws/logs",
			HandshakeTimeout: Duration(10 * time.Second),
			ReadLimit:        1 << 20,
		},
		Bench: BenchConfig{
			Target:    "http://localhost:8080/logs",
			ResultsDB: "bench.db",
			Threshold: 1000,
			Scenarios: []ScenarioConfig{
				{Name: "light", Requests: 100, Workers: 10},
				{Name: "medium", Requests: 1000, Workers: 50},
				{Name: "heavy", Requests: 1000, Workers: 100},
				{Name: "stress", Requests: 2000, Workers: 200},
			},
		},
	}
}

// Load reads a YAML config file, layers it over the defaults, and applies
// environment overrides. An empty path returns the defaults (plus
// environment overrides).
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv layers LOGWATCH_* environment variables over the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("LOGWATCH_ENDPOINT"); v != "" {
		c.Listener.Endpoint = v
	}
	if v := os.Getenv("LOGWATCH_BENCH_TARGET"); v != "" {
		c.Bench.Target = v
	}
	if v := os.Getenv("LOGWATCH_BENCH_SCHEMA_ID"); v != "" {
		c.Bench.SchemaID = v
	}
	if v := os.Getenv("LOGWATCH_BENCH_DB"); v != "" {
		c.Bench.ResultsDB = v
	}
}

// Validate checks the listener configuration.
func (c ListenerConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("listener endpoint is required")
	}
	return nil
}

// Validate checks the bench configuration.
func (c BenchConfig) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("bench target is required")
	}
	for _, s := range c.Scenarios {
		if s.Requests <= 0 || s.Workers <= 0 {
			return fmt.Errorf("scenario %q: requests and workers must be positive", s.Name)
		}
	}
	return nil
}
