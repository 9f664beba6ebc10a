// Package session drives the payment screen of one payment session. A
// Controller mirrors the server-side session, runs the local countdown,
// gates the coin and network selection, and requests the QR code.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vitwit/paysession/clients"
	"github.com/vitwit/paysession/logger"
	"github.com/vitwit/paysession/metrics"
	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/ui"
	"github.com/vitwit/paysession/utils"
)

const eventBuffer = 32

// Backend is the part of the payment API the controller calls.
type Backend interface {
	SessionState(ctx context.Context, sessionKey string) (*types.SessionSnapshot, error)
	GenerateQR(ctx context.Context, sessionKey string) (string, error)
}

// Wallet is the connected-wallet payment path.
type Wallet interface {
	IsConnected() bool
	PayWithWallet(ctx context.Context, sessionKey string, payment *types.Payment) types.WalletPaymentResult
}

// Dialer opens the push channel of a session.
type Dialer func(ctx context.Context, sessionKey string) (clients.Socket, error)

// Snapshot is a point-in-time copy of what the controller shows.
type Snapshot struct {
	State          types.UIState
	QRID           string
	Payment        *types.Payment
	TimeLeft       int
	Selection      types.Selection
	QRImage        string
	QRInFlight     bool
	WalletInFlight bool
	Signature      string
}

// Controller owns the lifecycle of one payment session. All state is
// touched only by the Run goroutine; the exported actions post events to it.
type Controller struct {
	key     string
	backend Backend
	dial    Dialer
	wallet  Wallet
	els     ui.Elements
	qr      ui.ImageElement
	page    ui.Page

	newTicker func(time.Duration) Ticker
	onState   func(types.UIState)
	log       logger.Logger
	metrics   metrics.Recorder

	events  chan event
	done    chan struct{}
	running atomic.Bool

	// loop state
	ctx            context.Context
	state          types.UIState
	payment        *types.Payment
	selection      types.Selection
	coinChosen     bool
	remaining      int
	ticker         Ticker
	socket         clients.Socket
	qrInFlight     bool
	qrShown        bool
	walletInFlight bool
	signature      string
	err            error

	mu   sync.Mutex
	snap Snapshot
}

// New binds a controller to the screen. It fails with a
// *ui.MissingElementError when a required element is absent.
func New(sessionKey string, backend Backend, dial Dialer, els ui.Elements, page ui.Page, opts ...Option) (*Controller, error) {
	if err := els.Check(); err != nil {
		return nil, err
	}
	if page == nil {
		return nil, types.NewError(types.ErrConfigError, "page is required", nil)
	}
	if backend == nil || dial == nil {
		return nil, types.NewError(types.ErrConfigError, "backend and socket dialer are required", nil)
	}

	c := &Controller{
		key:       sessionKey,
		backend:   backend,
		dial:      dial,
		els:       els,
		qr:        els[ui.QRCode].(ui.ImageElement),
		page:      page,
		newTicker: newTimeTicker,
		log:       logger.NoopLogger{},
		metrics:   metrics.NoopRecorder{},
		events:    make(chan event, eventBuffer),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(map[string]any{"session": sessionKey})

	return c, nil
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.snap
	if s.Payment != nil {
		p := *s.Payment
		s.Payment = &p
	}
	return s
}

// Done is closed when Run returns.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Run bootstraps the session, opens the socket and processes events until
// a terminal state is reached or ctx is cancelled. It returns the cause
// when the session ends in the error state.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("session controller is already running")
	}
	defer close(c.done)

	c.ctx = ctx
	c.initControls()

	if err := utils.ValidateSessionKey(c.key); err != nil {
		c.fail(err)
		return err
	}

	snap, err := c.backend.SessionState(ctx, c.key)
	if err != nil {
		c.fail(err)
		return err
	}
	c.applySnapshot(snap, true)
	if c.state.IsTerminal() {
		return c.err
	}

	sock, err := c.dial(ctx, c.key)
	if err != nil {
		c.fail(err)
		return err
	}
	c.socket = sock
	c.log.Info("session socket open", nil)

	if err := sock.Send(types.ClientMessage{Type: types.MsgStatusRequest}); err != nil {
		c.log.Warn("status request failed", map[string]any{"error": err})
	}
	go c.readLoop(sock)

	for {
		select {
		case <-ctx.Done():
			c.stopCountdown()
			c.closeSocket()
			return ctx.Err()

		case <-c.tickC():
			c.tick()

		case ev := <-c.events:
			ev.apply(c)
		}

		if c.state.IsTerminal() {
			return c.err
		}
	}
}

func (c *Controller) readLoop(sock clients.Socket) {
	for {
		msg, err := sock.Receive()
		if err != nil {
			if types.ErrorCode(err) == types.ErrInvalidPayload {
				c.post(malformedFrame{err: err})
				continue
			}
			c.post(socketClosed{err: err})
			return
		}
		c.post(socketMessage{msg: msg})
	}
}

// post hands ev to the Run loop. It is dropped once Run has returned.
func (c *Controller) post(ev event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Controller) update(fn func(*Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.snap)
}

// applySnapshot mirrors an authoritative server snapshot. Its timeLeft
// always re-arms the countdown; outside the bootstrap it never moves the
// flow backwards.
func (c *Controller) applySnapshot(s *types.SessionSnapshot, bootstrap bool) {
	if c.state.IsTerminal() {
		return
	}

	if left, ok := s.Countdown(); ok {
		c.armCountdown(left)
		if c.state.IsTerminal() {
			return
		}
	}

	if !bootstrap && c.state != "" && s.UIState.Rank() < c.state.Rank() {
		c.log.Debug("stale session status ignored", map[string]any{"state": s.UIState, "current": c.state})
		return
	}

	c.els[ui.QRCodeID].SetText(s.QRID)
	c.update(func(snap *Snapshot) { snap.QRID = s.QRID })

	if s.Payment != nil {
		c.setPayment(s.Payment)
	}

	switch s.UIState {
	case types.StateError:
		c.fail(types.NewError(types.ErrSessionNotFound, "session is in error state", nil))
	default:
		c.enter(s.UIState)
	}
}

func (c *Controller) setPayment(p *types.Payment) {
	if c.payment != nil && c.payment.ID == p.ID && c.payment.AmountUSD.Equal(p.AmountUSD) {
		return
	}
	c.payment = p
	c.selection = types.Selection{}
	c.coinChosen = false
	c.update(func(s *Snapshot) {
		s.Payment = p
		s.Selection = types.Selection{}
	})
}

// enter moves to state and renders it. Re-entering the current state
// refreshes the view. The snapshot changes only once the view is drawn.
func (c *Controller) enter(state types.UIState) {
	from := c.state
	if from.IsTerminal() {
		return
	}

	if from != state {
		c.state = state
		c.log.Info("session transition", map[string]any{"from": from, "to": state})
		c.metrics.IncCounter(metrics.EventTransition, map[string]string{"label": string(state)})
		defer func() {
			c.update(func(s *Snapshot) { s.State = state })
			if c.onState != nil {
				c.onState(state)
			}
		}()
	}

	switch state {
	case types.StateWait:
		c.renderWait()
	case types.StateChoose:
		c.renderChoose()
	case types.StatePayment:
		c.renderPayment()
	case types.StateCompleted:
		c.finish()
		c.renderCompleted()
	case types.StateExpired:
		c.finish()
		c.page.ShowTerminal(expiredTitle, expiredMessage)
	case types.StateError:
		c.finish()
		c.page.ShowTerminal(errorTitle, errorMessage)
	}
}

// fail records err and moves to the error state.
func (c *Controller) fail(err error) {
	if c.state.IsTerminal() {
		return
	}
	c.err = err
	c.log.Error("session failed", map[string]any{"error": err, "code": types.ErrorCode(err)})
	c.enter(types.StateError)
}

func (c *Controller) finish() {
	c.stopCountdown()
	c.closeSocket()
}

func (c *Controller) closeSocket() {
	if c.socket == nil {
		return
	}
	if err := c.socket.Close(); err != nil {
		c.log.Debug("socket close", map[string]any{"error": err})
	}
	c.socket = nil
}
