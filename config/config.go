// Package config loads the CLI harness configuration: which RPC endpoint
// and variant to simulate against, and the hydration retry/backoff budget.
// Grounded on the teacher's cmd/client config.LoadConfig(path) shape
// (flag for the path, yaml.v3 for the file itself).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the poolsim harness's on-disk configuration.
type Config struct {
	RPCURL      string        `yaml:"rpc_url"`
	Variant     string        `yaml:"variant"` // "v2", "v3", or "v4"
	PoolAddress string        `yaml:"pool_address"`
	FeePPM      uint32        `yaml:"fee_ppm"`
	TickSpacing int32         `yaml:"tick_spacing"`
	MaxRetries  int           `yaml:"max_retries"`
	Backoff     time.Duration `yaml:"backoff"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

// defaults mirrors the zero-value fallbacks the teacher's RPC client
// constructor applies (archive/explorer/indexer/internal/rpc.NewClient).
func defaults() Config {
	return Config{
		Variant:     "v3",
		FeePPM:      3000,
		TickSpacing: 60,
		MaxRetries:  3,
		Backoff:     10 * time.Second,
		MetricsAddr: ":9090",
	}
}

// Load reads and parses the YAML config file at path, filling unset fields
// with defaults().
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("config: rpc_url is required")
	}
	if cfg.PoolAddress == "" {
		return nil, fmt.Errorf("config: pool_address is required")
	}

	return &cfg, nil
}
