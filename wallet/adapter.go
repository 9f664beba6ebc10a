package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/vitwit/paysession/clients"
	"github.com/vitwit/paysession/logger"
	"github.com/vitwit/paysession/metrics"
	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/ui"
	"github.com/vitwit/paysession/utils"
	"github.com/vitwit/paysession/verification"
)

const connectLabel = "Connect Wallet"

// Backend is the part of the payment API a wallet payment needs.
type Backend interface {
	CreateTransaction(ctx context.Context, paymentID, account string) (string, error)
	RecordWalletPayment(ctx context.Context, sessionKey, walletAddress, signature string) error
}

// Adapter wraps a connected wallet. It holds no session state.
type Adapter struct {
	selector  Selector
	backend   Backend
	chain     Broadcaster
	globals   Globals
	resolvers []Resolver
	button    ui.Element

	onConnected    func(string)
	onDisconnected func()

	log     logger.Logger
	metrics metrics.Recorder

	mu         sync.Mutex
	address    string
	subscribed bool
}

// New creates an adapter bound to the wallet button.
func New(selector Selector, backend Backend, button ui.Element, opts ...Option) (*Adapter, error) {
	if button == nil {
		return nil, &ui.MissingElementError{Key: ui.WalletButton}
	}
	if selector == nil {
		return nil, types.NewError(types.ErrConfigError, "wallet selector is required", nil)
	}
	if backend == nil {
		return nil, types.NewError(types.ErrConfigError, "payment backend is required", nil)
	}

	a := &Adapter{
		selector:  selector,
		backend:   backend,
		button:    button,
		resolvers: DefaultResolvers,
		log:       logger.NoopLogger{},
		metrics:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Setup subscribes to the selector's account stream. Calling it again
// has no effect.
func (a *Adapter) Setup() {
	a.mu.Lock()
	if a.subscribed {
		a.mu.Unlock()
		return
	}
	a.subscribed = true
	a.mu.Unlock()

	a.button.SetText(connectLabel)
	a.selector.SubscribeAccount(a.handleAccount)
}

func (a *Adapter) IsConnected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.address != ""
}

// Address returns the cached wallet address, empty when not connected.
func (a *Adapter) Address() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.address
}

// Connect opens the wallet selector and waits for the user. The new
// account arrives through the subscription.
func (a *Adapter) Connect(ctx context.Context) error {
	if err := a.selector.Open(ctx); err != nil {
		a.log.Warn("failed to open wallet selector", map[string]any{"error": err})
		return err
	}
	return nil
}

// Disconnect asks the selector to drop the connection and then clears the
// local state whatever the selector answered.
func (a *Adapter) Disconnect(ctx context.Context) error {
	err := a.selector.Disconnect(ctx)
	if err != nil {
		a.log.Warn("wallet disconnect failed", map[string]any{"error": err})
	}

	a.mu.Lock()
	a.address = ""
	a.mu.Unlock()
	a.disconnected()

	return err
}

func (a *Adapter) handleAccount(acc Account) {
	if acc.Address != "" {
		if err := utils.ValidateAddress(acc.Address); err != nil {
			a.log.Warn("wallet account ignored", map[string]any{"address": acc.Address, "error": err})
			return
		}
	}

	a.mu.Lock()
	if acc.Address != "" {
		if acc.Address == a.address {
			a.mu.Unlock()
			return
		}
		a.address = acc.Address
		a.mu.Unlock()

		a.log.Info("wallet connected", map[string]any{"address": acc.Address, "wallet": a.selector.WalletName()})
		a.button.SetText(utils.ShortenAddress(acc.Address))
		if a.onConnected != nil {
			a.onConnected(acc.Address)
		}
		return
	}

	if a.address == "" {
		a.mu.Unlock()
		return
	}
	a.address = ""
	a.mu.Unlock()

	a.disconnected()
}

func (a *Adapter) disconnected() {
	a.log.Info("wallet disconnected", nil)
	a.button.SetText(connectLabel)
	if a.onDisconnected != nil {
		a.onDisconnected()
	}
}

// PayWithWallet pays payment from the connected wallet and records the
// signature against sessionKey. Failures are returned in the result.
func (a *Adapter) PayWithWallet(ctx context.Context, sessionKey string, payment *types.Payment) types.WalletPaymentResult {
	start := time.Now()

	sig, err := a.pay(ctx, sessionKey, payment)

	a.metrics.ObserveLatency(metrics.EventWalletPayment, time.Since(start), nil)
	if err != nil {
		res := classify(err)
		a.metrics.IncCounter(metrics.EventWalletPayment, map[string]string{"label": res.Code})
		a.log.Warn("wallet payment failed", map[string]any{"session": sessionKey, "code": res.Code, "error": err})
		return res
	}

	a.metrics.IncCounter(metrics.EventWalletPayment, map[string]string{"label": "success"})
	a.log.Info("wallet payment recorded", map[string]any{"session": sessionKey, "signature": utils.ShortenSignature(sig)})

	return types.WalletPaymentResult{Success: true, TransactionID: sig}
}

func (a *Adapter) pay(ctx context.Context, sessionKey string, payment *types.Payment) (string, error) {
	address := a.Address()
	if address == "" {
		return "", types.NewError(types.ErrWalletNotConnected, types.MsgWalletNotConnected, nil)
	}

	provider := ResolveProvider(a.selector, a.globals, a.resolvers)
	if provider == nil {
		return "", types.NewError(types.ErrProviderUnavailable, types.MsgProviderUnavailable, nil)
	}

	if payment == nil || payment.ID == "" {
		return "", types.NewError(types.ErrTransactionCreationFailed, types.MsgTransactionCreationFailed, nil)
	}

	b64, err := a.backend.CreateTransaction(ctx, payment.ID, address)
	if err != nil {
		return "", err
	}

	tx, err := clients.DecodeTransaction(b64)
	if err != nil {
		return "", err
	}

	if err := verification.VerifyTransaction(tx, address); err != nil {
		a.log.Warn("backend transaction rejected", map[string]any{"payment": payment.ID, "error": err})
		return "", err
	}

	sig, err := a.signAndSend(ctx, provider, tx)
	if err != nil {
		return "", err
	}

	if err := a.backend.RecordWalletPayment(ctx, sessionKey, address, sig.String()); err != nil {
		return "", err
	}

	return sig.String(), nil
}

func (a *Adapter) signAndSend(ctx context.Context, provider Provider, tx *solana.Transaction) (solana.Signature, error) {
	switch p := provider.(type) {
	case SignAndSender:
		return p.SignAndSendTransaction(ctx, tx)
	case Signer:
		if a.chain == nil {
			return solana.Signature{}, types.NewError(types.ErrTransactionFailed, "no RPC connection for sign-only wallet", nil)
		}
		signed, err := p.SignTransaction(ctx, tx)
		if err != nil {
			return solana.Signature{}, err
		}
		return a.chain.SendTransaction(ctx, signed)
	default:
		return solana.Signature{}, types.NewError(types.ErrTransactionFailed, types.MsgSigningUnsupported, nil)
	}
}
