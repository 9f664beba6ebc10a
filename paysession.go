// Package paysession is the client side of a hosted crypto checkout. It
// mirrors a payment session pushed by the backend, drives the payment
// screen through it, and pays the session from a connected Solana wallet.
package paysession

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vitwit/paysession/clients"
	"github.com/vitwit/paysession/logger"
	"github.com/vitwit/paysession/metrics"
	"github.com/vitwit/paysession/session"
	"github.com/vitwit/paysession/settlement"
	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/ui"
	"github.com/vitwit/paysession/utils"
	"github.com/vitwit/paysession/wallet"
)

// Version is set at build time.
var Version = "dev"

// Client is the entry point: it owns the backend, socket and Solana RPC
// connections and builds session controllers and wallet adapters on them.
type Client struct {
	config  *types.Config
	api     *clients.APIClient
	solana  *clients.SolanaClient
	dialer  *websocket.Dialer
	logger  logger.Logger
	metrics metrics.Recorder
	timeout time.Duration
}

// New creates a client for the given configuration.
func New(config *types.Config, opts ...Option) (*Client, error) {
	if err := utils.ValidateConfig(config); err != nil {
		return nil, err
	}

	c := &Client{
		config:  config,
		logger:  logger.NoopLogger{},
		metrics: metrics.NoopRecorder{},
		timeout: config.RequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dialer == nil {
		c.dialer = &websocket.Dialer{HandshakeTimeout: c.timeout}
	}

	sol, err := clients.NewSolanaClient(config.Cluster, config.SolanaRPC)
	if err != nil {
		return nil, fmt.Errorf("failed to create Solana client for %s: %w", config.Cluster, err)
	}

	c.solana = sol
	c.api = clients.NewAPIClient(config.ServerURL, c.timeout, c.logger, c.metrics)

	return c, nil
}

// NewWithDefaults creates a client for the hosted checkout.
func NewWithDefaults(opts ...Option) (*Client, error) {
	return New(types.DefaultConfig(), opts...)
}

func (c *Client) Config() *types.Config { return c.config }

func (c *Client) Solana() *clients.SolanaClient { return c.solana }

// Dial opens the push channel of a session.
func (c *Client) Dial(ctx context.Context, sessionKey string) (clients.Socket, error) {
	return clients.DialSession(ctx, c.dialer, c.config.WSURL, sessionKey)
}

// NewSession builds a session controller bound to the screen.
func (c *Client) NewSession(sessionKey string, els ui.Elements, page ui.Page, opts ...session.Option) (*session.Controller, error) {
	base := []session.Option{
		session.WithLogger(c.logger),
		session.WithMetrics(c.metrics),
	}
	return session.New(sessionKey, c.api, c.Dial, els, page, append(base, opts...)...)
}

// NewWallet builds a wallet adapter that submits sign-only payments over
// the client's Solana RPC connection.
func (c *Client) NewWallet(sel wallet.Selector, button ui.Element, opts ...wallet.Option) (*wallet.Adapter, error) {
	base := []wallet.Option{
		wallet.WithLogger(c.logger),
		wallet.WithMetrics(c.metrics),
		wallet.WithBroadcaster(c.solana),
	}
	return wallet.New(sel, c.api, button, append(base, opts...)...)
}

// NewConfirmer waits for wallet payments to reach confirmed commitment.
func (c *Client) NewConfirmer(timeout time.Duration) *settlement.Confirmer {
	return settlement.NewConfirmer(c.solana, timeout, 0)
}

// Checkout is one payment screen: the session controller and the wallet
// adapter wired to show or hide the wallet-pay control.
type Checkout struct {
	Session *session.Controller
	Wallet  *wallet.Adapter
}

// NewCheckout builds a controller and a wallet adapter for sessionKey and
// wires the adapter's connection changes into the controller.
func (c *Client) NewCheckout(sessionKey string, els ui.Elements, page ui.Page, sel wallet.Selector, globals wallet.Globals, opts ...session.Option) (*Checkout, error) {
	var ctrl *session.Controller

	adapter, err := c.NewWallet(sel, els[ui.WalletButton],
		wallet.WithGlobals(globals),
		wallet.OnConnected(func(addr string) { ctrl.WalletConnected(addr) }),
		wallet.OnDisconnected(func() { ctrl.WalletDisconnected() }),
	)
	if err != nil {
		return nil, err
	}

	ctrl, err = c.NewSession(sessionKey, els, page, append([]session.Option{session.WithWallet(adapter)}, opts...)...)
	if err != nil {
		return nil, err
	}

	adapter.Setup()

	return &Checkout{Session: ctrl, Wallet: adapter}, nil
}

// Close closes all client connections
func (c *Client) Close() error {
	return c.solana.Close()
}
