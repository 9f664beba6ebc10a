// Package wallet bridges an externally managed Solana wallet connection to
// the payment screen and pays a session from it.
package wallet

import (
	"context"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// Account is one value of the wallet-selector account stream. An empty
// Address means no account is connected.
type Account struct {
	Address string
}

// Selector is the external wallet-selector SDK: it presents the wallet
// choice, owns the connection, and reports account changes.
type Selector interface {
	// Open shows the wallet choice and blocks until the user connects or
	// cancels.
	Open(ctx context.Context) error
	Disconnect(ctx context.Context) error

	// SubscribeAccount registers fn for every account change.
	SubscribeAccount(fn func(Account))

	// WalletName is the declared name of the connected wallet, if any.
	WalletName() string

	// Provider is the signing provider surfaced by the selector's own
	// registry, or nil.
	Provider() Provider
}

// Provider is a wallet-specific object. What it can do is discovered by
// asserting the capability interfaces below.
type Provider any

// SignAndSender signs and broadcasts in one step.
type SignAndSender interface {
	SignAndSendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Signer only signs; the caller submits through its own RPC connection.
type Signer interface {
	SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
}

// Broadcaster submits a signed transaction to the cluster.
type Broadcaster interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Globals is the registry of wallet objects injected by installed
// wallets, keyed by their well-known global name.
type Globals map[string]Provider

// Resolver maps a wallet-name substring to the global that serves it. An
// empty Match matches any wallet.
type Resolver struct {
	Match  string
	Global string
}

// DefaultResolvers is tried in order; the last entry is the generic
// fallback.
var DefaultResolvers = []Resolver{
	{Match: "phantom", Global: "phantom.solana"},
	{Match: "glow", Global: "glowSolana"},
	{Match: "solflare", Global: "solflare"},
	{Match: "backpack", Global: "backpack"},
	{Match: "", Global: "solana"},
}

// ResolveProvider returns the selector's registry provider when it has
// one, otherwise the first table entry whose name matches walletName and
// whose global is present.
func ResolveProvider(sel Selector, globals Globals, table []Resolver) Provider {
	if sel != nil {
		if p := sel.Provider(); p != nil {
			return p
		}
	}

	name := ""
	if sel != nil {
		name = strings.ToLower(sel.WalletName())
	}

	for _, r := range table {
		if r.Match != "" && !strings.Contains(name, r.Match) {
			continue
		}
		if p, ok := globals[r.Global]; ok && p != nil {
			return p
		}
	}

	return nil
}
