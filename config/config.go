// Package config loads the client configuration from YAML, .env files
// and PAYSESSION_* environment variables, in that order of precedence
// (later wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/utils"
)

// Environment variable names.
const (
	EnvServerURL      = "PAYSESSION_SERVER_URL"
	EnvWSURL          = "PAYSESSION_WS_URL"
	EnvSolanaRPC      = "PAYSESSION_SOLANA_RPC"
	EnvCluster        = "PAYSESSION_CLUSTER"
	EnvRequestTimeout = "PAYSESSION_REQUEST_TIMEOUT"
	EnvLogLevel       = "PAYSESSION_LOG_LEVEL"
	EnvMetricsAddr    = "PAYSESSION_METRICS_ADDR"
)

// Load builds a validated config. path may be empty, in which case only
// defaults and the environment apply. Missing env files are skipped.
func Load(path string, envFiles ...string) (*types.Config, error) {
	cfg := types.DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, types.NewError(types.ErrConfigError, fmt.Sprintf("read %s", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, types.NewError(types.ErrConfigError, fmt.Sprintf("parse %s", path), err)
		}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, types.NewError(types.ErrConfigError, fmt.Sprintf("load %s", f), err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := utils.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *types.Config) error {
	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(EnvWSURL); v != "" {
		cfg.WSURL = v
	}
	if v := os.Getenv(EnvSolanaRPC); v != "" {
		cfg.SolanaRPC = v
	}
	if v := os.Getenv(EnvCluster); v != "" {
		cfg.Cluster = types.SolanaCluster(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		cfg.EnableMetrics = true
		cfg.MetricsAddr = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return types.NewError(types.ErrConfigError, fmt.Sprintf("invalid %s", EnvRequestTimeout), err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
