package wallet

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/ui"
)

type fakeButton struct {
	mu   sync.Mutex
	text string
}

func (b *fakeButton) SetText(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = s
}
func (b *fakeButton) SetVisible(bool) {}
func (b *fakeButton) SetEnabled(bool) {}
func (b *fakeButton) SetTone(ui.Tone) {}
func (b *fakeButton) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

type fakeSelector struct {
	name     string
	provider Provider
	subs     []func(Account)
	openErr  error
}

func (s *fakeSelector) Open(context.Context) error { return s.openErr }
func (s *fakeSelector) Disconnect(context.Context) error { return nil }
func (s *fakeSelector) SubscribeAccount(fn func(Account)) {
	s.subs = append(s.subs, fn)
}
func (s *fakeSelector) WalletName() string { return s.name }
func (s *fakeSelector) Provider() Provider { return s.provider }

func (s *fakeSelector) emit(addr string) {
	for _, fn := range s.subs {
		fn(Account{Address: addr})
	}
}

type fakeBackend struct {
	t        *testing.T
	calls    int
	txErr    error
	recErr   error
	recorded string
}

func (b *fakeBackend) CreateTransaction(_ context.Context, paymentID, account string) (string, error) {
	b.calls++
	if b.txErr != nil {
		return "", b.txErr
	}
	payer, err := solana.PublicKeyFromBase58(account)
	require.NoError(b.t, err)

	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1000, payer, solana.NewWallet().PublicKey()).Build()},
		solana.Hash(solana.NewWallet().PublicKey()),
		solana.TransactionPayer(payer),
	)
	require.NoError(b.t, err)

	raw, err := tx.MarshalBinary()
	require.NoError(b.t, err)
	return base64.StdEncoding.EncodeToString(raw), nil
}

func (b *fakeBackend) RecordWalletPayment(_ context.Context, _, _, signature string) error {
	b.calls++
	if b.recErr != nil {
		return b.recErr
	}
	b.recorded = signature
	return nil
}

type sendFunc func(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)

func (f sendFunc) SignAndSendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return f(ctx, tx)
}

type broadcastFunc func(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)

func (f broadcastFunc) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return f(ctx, tx)
}

var payment = &types.Payment{ID: "p-1", ItemName: "Widget"}

func newAdapter(t *testing.T, sel Selector, backend Backend, opts ...Option) (*Adapter, *fakeButton) {
	t.Helper()
	btn := &fakeButton{}
	a, err := New(sel, backend, btn, opts...)
	require.NoError(t, err)
	a.Setup()
	return a, btn
}

func TestNew_RequiresButton(t *testing.T) {
	_, err := New(&fakeSelector{}, &fakeBackend{t: t}, nil)

	var missing *ui.MissingElementError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, ui.WalletButton, missing.Key)
}

func TestPayWithWallet_NotConnected(t *testing.T) {
	backend := &fakeBackend{t: t}
	a, _ := newAdapter(t, &fakeSelector{provider: sendFunc(nil)}, backend)

	res := a.PayWithWallet(context.Background(), "k", payment)

	assert.False(t, res.Success)
	assert.Equal(t, "Wallet not connected", res.Error)
	assert.Equal(t, types.ErrWalletNotConnected, res.Code)
	assert.Zero(t, backend.calls)
}

func TestSetup_SubscribesOnce(t *testing.T) {
	sel := &fakeSelector{}
	var connected []string
	disconnected := 0

	a, btn := newAdapter(t, sel, &fakeBackend{t: t},
		OnConnected(func(addr string) { connected = append(connected, addr) }),
		OnDisconnected(func() { disconnected++ }),
	)
	a.Setup()
	require.Len(t, sel.subs, 1)
	assert.Equal(t, "Connect Wallet", btn.Text())

	addr := solana.NewWallet().PublicKey().String()
	sel.emit(addr)
	sel.emit(addr)

	assert.True(t, a.IsConnected())
	assert.Equal(t, addr, a.Address())
	assert.Equal(t, []string{addr}, connected)
	assert.Equal(t, addr[:6]+"..."+addr[len(addr)-4:], btn.Text())

	sel.emit("")
	sel.emit("")
	assert.False(t, a.IsConnected())
	assert.Equal(t, 1, disconnected)
	assert.Equal(t, "Connect Wallet", btn.Text())
}

func TestSetup_IgnoresMalformedAddress(t *testing.T) {
	sel := &fakeSelector{}
	connected := 0
	a, btn := newAdapter(t, sel, &fakeBackend{t: t}, OnConnected(func(string) { connected++ }))
	a.Setup()

	sel.emit("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")

	assert.False(t, a.IsConnected())
	assert.Zero(t, connected)
	assert.Equal(t, "Connect Wallet", btn.Text())
}

func TestDisconnect_ClearsAddress(t *testing.T) {
	sel := &fakeSelector{}
	a, btn := newAdapter(t, sel, &fakeBackend{t: t})
	sel.emit(solana.NewWallet().PublicKey().String())

	require.NoError(t, a.Disconnect(context.Background()))
	assert.Empty(t, a.Address())
	assert.Equal(t, "Connect Wallet", btn.Text())
}

func TestResolveProvider(t *testing.T) {
	registry := NewKeypairProvider(solana.NewWallet().PrivateKey)
	phantom := NewKeypairProvider(solana.NewWallet().PrivateKey)
	generic := NewKeypairProvider(solana.NewWallet().PrivateKey)

	tests := []struct {
		name    string
		sel     *fakeSelector
		globals Globals
		want    Provider
	}{
		{"registry wins", &fakeSelector{name: "Phantom", provider: registry}, Globals{"phantom.solana": phantom}, registry},
		{"named global", &fakeSelector{name: "Phantom"}, Globals{"phantom.solana": phantom, "solana": generic}, phantom},
		{"named global absent", &fakeSelector{name: "Phantom"}, Globals{"solflare": phantom, "solana": generic}, generic},
		{"generic fallback", &fakeSelector{name: "Unknown"}, Globals{"solana": generic}, generic},
		{"nothing", &fakeSelector{name: "Glow"}, Globals{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveProvider(tt.sel, tt.globals, DefaultResolvers)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayWithWallet_SignAndSend(t *testing.T) {
	sig := solana.SignatureFromBytes(make([]byte, 64))
	sel := &fakeSelector{provider: sendFunc(func(context.Context, *solana.Transaction) (solana.Signature, error) {
		return sig, nil
	})}
	backend := &fakeBackend{t: t}
	a, _ := newAdapter(t, sel, backend)
	sel.emit(solana.NewWallet().PublicKey().String())

	res := a.PayWithWallet(context.Background(), "k", payment)

	require.True(t, res.Success, res.Error)
	assert.Equal(t, sig.String(), res.TransactionID)
	assert.Equal(t, sig.String(), backend.recorded)
}

func TestPayWithWallet_SignerFallsBackToRPC(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	sel := NewKeypairSelectorFromKey(key)
	backend := &fakeBackend{t: t}

	var broadcast *solana.Transaction
	a, _ := newAdapter(t, sel, backend, WithBroadcaster(broadcastFunc(func(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
		broadcast = tx
		return tx.Signatures[0], nil
	})))
	require.NoError(t, a.Connect(context.Background()))
	require.Equal(t, key.PublicKey().String(), a.Address())

	res := a.PayWithWallet(context.Background(), "k", payment)

	require.True(t, res.Success, res.Error)
	require.NotNil(t, broadcast)
	assert.NoError(t, broadcast.VerifySignatures())
	assert.Equal(t, broadcast.Signatures[0].String(), backend.recorded)
}

func TestPayWithWallet_Failures(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		backend  *fakeBackend
		code     string
		msg      string
	}{
		{
			name:     "no provider",
			provider: nil,
			backend:  &fakeBackend{t: t},
			code:     types.ErrProviderUnavailable,
			msg:      "Wallet provider not available",
		},
		{
			name:     "transaction creation",
			provider: sendFunc(nil),
			backend:  &fakeBackend{t: t, txErr: types.NewError(types.ErrTransactionCreationFailed, types.MsgTransactionCreationFailed, nil)},
			code:     types.ErrTransactionCreationFailed,
			msg:      "Failed to create transaction",
		},
		{
			name: "user rejected",
			provider: sendFunc(func(context.Context, *solana.Transaction) (solana.Signature, error) {
				return solana.Signature{}, errors.New("User rejected the request")
			}),
			backend: &fakeBackend{t: t},
			code:    types.ErrUserRejected,
			msg:     "Transaction rejected by user",
		},
		{
			name: "rate limited",
			provider: sendFunc(func(context.Context, *solana.Transaction) (solana.Signature, error) {
				return solana.Signature{}, errors.New("rpc call sendTransaction() on https://api.mainnet-beta.solana.com: 403 Forbidden")
			}),
			backend: &fakeBackend{t: t},
			code:    types.ErrRateLimited,
			msg:     "RPC rate limit. Please try again or contact support.",
		},
		{
			name:     "unsupported provider",
			provider: struct{}{},
			backend:  &fakeBackend{t: t},
			code:     types.ErrTransactionFailed,
			msg:      "Wallet does not support transaction signing",
		},
		{
			name: "recording rejected",
			provider: sendFunc(func(context.Context, *solana.Transaction) (solana.Signature, error) {
				return solana.Signature{}, nil
			}),
			backend: &fakeBackend{t: t, recErr: types.NewError(types.ErrPaymentRecordingFailed, "Session already paid", nil)},
			code:    types.ErrPaymentRecordingFailed,
			msg:     "Session already paid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := &fakeSelector{provider: tt.provider}
			a, _ := newAdapter(t, sel, tt.backend)
			sel.emit(solana.NewWallet().PublicKey().String())

			res := a.PayWithWallet(context.Background(), "k", payment)

			assert.False(t, res.Success)
			assert.Equal(t, tt.code, res.Code)
			assert.Equal(t, tt.msg, res.Error)
		})
	}
}
