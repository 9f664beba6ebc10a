package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/paysession/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, types.DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, types.DefaultWSURL, cfg.WSURL)
	assert.Equal(t, types.ClusterMainnet, cfg.Cluster)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "paysession.yaml", `
server_url: https://pay.example.com
ws_url: wss://pay.example.com
cluster: solana-devnet
request_timeout: 15s
log_level: debug
`)
	envFile := writeFile(t, dir, ".env", "PAYSESSION_SOLANA_RPC=https://api.devnet.solana.com\n")
	t.Setenv(EnvServerURL, "https://override.example.com")
	t.Cleanup(func() { os.Unsetenv(EnvSolanaRPC) })

	cfg, err := Load(path, envFile)
	require.NoError(t, err)

	assert.Equal(t, "https://override.example.com", cfg.ServerURL)
	assert.Equal(t, "wss://pay.example.com", cfg.WSURL)
	assert.Equal(t, "https://api.devnet.solana.com", cfg.SolanaRPC)
	assert.Equal(t, types.ClusterDevnet, cfg.Cluster)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "cluster: ethereum\n")

	_, err := Load(path, filepath.Join(dir, "none.env"))
	require.Error(t, err)
	assert.Equal(t, types.ErrConfigError, types.ErrorCode(err))
}

func TestLoad_BadTimeoutEnv(t *testing.T) {
	t.Setenv(EnvRequestTimeout, "soon")

	_, err := Load("", filepath.Join(t.TempDir(), "none.env"))
	require.Error(t, err)
	assert.Equal(t, types.ErrConfigError, types.ErrorCode(err))
}

func TestLoad_SkipsMissingEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "b.env", "PAYSESSION_LOG_LEVEL=warn\n")
	t.Cleanup(func() { os.Unsetenv(EnvLogLevel) })

	cfg, err := Load("", filepath.Join(dir, "a.env"), envFile)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}
