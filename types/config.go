package types

import "time"

// Config contains global configuration for a payment-session client.
type Config struct {
	// Base URL of the payment backend REST API.
	ServerURL string `yaml:"server_url" json:"serverUrl" validate:"required,url"`

	// Base URL of the session WebSocket endpoint.
	WSURL string `yaml:"ws_url" json:"wsUrl" validate:"required,url"`

	// Solana JSON-RPC endpoint used when a wallet can only sign.
	SolanaRPC string `yaml:"solana_rpc" json:"solanaRpc" validate:"required,url"`

	Cluster SolanaCluster `yaml:"cluster" json:"cluster" validate:"required,oneof=solana-mainnet solana-devnet"`

	RequestTimeout time.Duration `yaml:"request_timeout" json:"requestTimeout" validate:"gt=0"`

	LogLevel string `yaml:"log_level" json:"logLevel" validate:"omitempty,oneof=debug info warn error"`

	EnableMetrics bool   `yaml:"enable_metrics" json:"enableMetrics"`
	MetricsAddr   string `yaml:"metrics_addr" json:"metricsAddr" validate:"required_if=EnableMetrics true"`
}

// Default endpoints of the hosted checkout.
const (
	DefaultServerURL      = "https://zapzap666.xyz"
	DefaultWSURL          = "wss://zapzap666.xyz"
	DefaultSolanaRPC      = "https://api.mainnet-beta.solana.com"
	DefaultRequestTimeout = 90 * time.Second
)

// DefaultConfig returns the configuration of the hosted checkout.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:      DefaultServerURL,
		WSURL:          DefaultWSURL,
		SolanaRPC:      DefaultSolanaRPC,
		Cluster:        ClusterMainnet,
		RequestTimeout: DefaultRequestTimeout,
		LogLevel:       "info",
	}
}
