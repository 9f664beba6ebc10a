package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// KeypairProvider signs with a local private key. It can only sign, so
// payments through it are broadcast over the adapter's RPC connection.
type KeypairProvider struct {
	key solana.PrivateKey
}

func NewKeypairProvider(key solana.PrivateKey) *KeypairProvider {
	return &KeypairProvider{key: key}
}

func (p *KeypairProvider) PublicKey() solana.PublicKey {
	return p.key.PublicKey()
}

// SignTransaction adds the key's signature to tx. The key must be one of
// the transaction's required signers.
func (p *KeypairProvider) SignTransaction(_ context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	pub := p.key.PublicKey()
	_, err := tx.PartialSign(func(k solana.PublicKey) *solana.PrivateKey {
		if k.Equals(pub) {
			return &p.key
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sign failed: %w", err)
	}
	return tx, nil
}

// KeypairSelector is a headless wallet selector backed by one keypair.
// Open connects it and Disconnect drops it.
type KeypairSelector struct {
	provider *KeypairProvider

	mu        sync.Mutex
	connected bool
	subs      []func(Account)
}

// NewKeypairSelector loads a Solana CLI keypair file.
func NewKeypairSelector(path string) (*KeypairSelector, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair %s: %w", path, err)
	}
	return NewKeypairSelectorFromKey(key), nil
}

func NewKeypairSelectorFromKey(key solana.PrivateKey) *KeypairSelector {
	return &KeypairSelector{provider: NewKeypairProvider(key)}
}

func (s *KeypairSelector) Open(context.Context) error {
	s.mu.Lock()
	s.connected = true
	subs := append([]func(Account){}, s.subs...)
	s.mu.Unlock()

	acc := Account{Address: s.provider.PublicKey().String()}
	for _, fn := range subs {
		fn(acc)
	}
	return nil
}

func (s *KeypairSelector) Disconnect(context.Context) error {
	s.mu.Lock()
	s.connected = false
	subs := append([]func(Account){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Account{})
	}
	return nil
}

func (s *KeypairSelector) SubscribeAccount(fn func(Account)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *KeypairSelector) WalletName() string {
	return "keypair"
}

// Provider returns the keypair signer while connected.
func (s *KeypairSelector) Provider() Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil
	}
	return s.provider
}
