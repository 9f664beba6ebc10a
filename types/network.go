package types

import "strings"

// Network is a blockchain network a payer can pick on the payment screen.
type Network string

const (
	NetworkSolana   Network = "solana"
	NetworkEthereum Network = "ethereum"
	NetworkPolygon  Network = "polygon"
	NetworkBase     Network = "base"
)

// Coin is a token a payer can pick on the payment screen.
type Coin string

const (
	CoinUSDC Coin = "USDC"
	CoinUSDT Coin = "USDT"
	CoinSOL  Coin = "SOL"
)

// SolanaCluster selects the RPC cluster used when a wallet cannot submit
// a transaction itself.
type SolanaCluster string

const (
	ClusterMainnet SolanaCluster = "solana-mainnet"
	ClusterDevnet  SolanaCluster = "solana-devnet"
)

func (c SolanaCluster) IsTestnet() bool {
	return c == ClusterDevnet
}

func (c SolanaCluster) String() string {
	return string(c)
}

// Selection is the client-local network/coin choice.
type Selection struct {
	Network Network `json:"network,omitempty"`
	Coin    Coin    `json:"coin,omitempty"`
}

// IsComplete reports whether both a network and a coin are chosen.
func (s Selection) IsComplete() bool {
	return s.Network != "" && s.Coin != ""
}

// IsSupported reports whether the selection is the single supported pair.
func (s Selection) IsSupported() bool {
	return s.Network == NetworkSolana && s.Coin == CoinUSDC
}

// ParseNetwork normalises a raw dropdown value.
func ParseNetwork(v string) Network {
	return Network(strings.ToLower(strings.TrimSpace(v)))
}

// ParseCoin normalises a raw dropdown value.
func ParseCoin(v string) Coin {
	return Coin(strings.ToUpper(strings.TrimSpace(v)))
}
