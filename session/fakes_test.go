package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vitwit/paysession/clients"
	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/ui"
)

type fakeElement struct {
	mu      sync.Mutex
	text    string
	visible bool
	enabled bool
	tone    ui.Tone
	image   string
}

func (e *fakeElement) SetText(s string) { e.set(func() { e.text = s }) }
func (e *fakeElement) SetVisible(v bool) { e.set(func() { e.visible = v }) }
func (e *fakeElement) SetEnabled(v bool) { e.set(func() { e.enabled = v }) }
func (e *fakeElement) SetTone(t ui.Tone) { e.set(func() { e.tone = t }) }
func (e *fakeElement) SetImage(src, _ string) { e.set(func() { e.image = src }) }

func (e *fakeElement) set(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

func (e *fakeElement) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

func (e *fakeElement) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

func (e *fakeElement) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

func (e *fakeElement) Tone() ui.Tone {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tone
}

func (e *fakeElement) Image() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.image
}

type screen map[ui.ElementKey]*fakeElement

func newScreen() screen {
	s := screen{}
	for _, k := range ui.RequiredKeys {
		s[k] = &fakeElement{}
	}
	return s
}

func (s screen) elements() ui.Elements {
	els := ui.Elements{}
	for k, e := range s {
		els[k] = e
	}
	return els
}

type fakePage struct {
	mu      sync.Mutex
	title   string
	message string
	alerts  []string
}

func (p *fakePage) ShowTerminal(title, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title, p.message = title, message
}

func (p *fakePage) Alert(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, message)
}

func (p *fakePage) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

func (p *fakePage) Alerts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.alerts...)
}

type fakeBackend struct {
	mu       sync.Mutex
	snap     *types.SessionSnapshot
	stateErr error
	qr       func() (string, error)
	qrCalls  int
	calls    int
}

func (b *fakeBackend) SessionState(context.Context, string) (*types.SessionSnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return b.snap, b.stateErr
}

func (b *fakeBackend) GenerateQR(context.Context, string) (string, error) {
	b.mu.Lock()
	b.qrCalls++
	fn := b.qr
	b.mu.Unlock()

	if fn == nil {
		return "data:image/png;base64,QR", nil
	}
	return fn()
}

func (b *fakeBackend) QRCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.qrCalls
}

type frame struct {
	msg *types.ServerMessage
	err error
}

type fakeSocket struct {
	in     chan frame
	mu     sync.Mutex
	sent   []types.ClientMessage
	closed chan struct{}
	once   sync.Once
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{in: make(chan frame, 16), closed: make(chan struct{})}
}

func (s *fakeSocket) Send(msg types.ClientMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSocket) Receive() (*types.ServerMessage, error) {
	select {
	case f := <-s.in:
		return f.msg, f.err
	case <-s.closed:
		return nil, errors.New("use of closed network connection")
	}
}

func (s *fakeSocket) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func (s *fakeSocket) IsClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *fakeSocket) Sent() []types.ClientMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ClientMessage(nil), s.sent...)
}

func (s *fakeSocket) push(msg *types.ServerMessage) { s.in <- frame{msg: msg} }
func (s *fakeSocket) fail(err error) { s.in <- frame{err: err} }

type manualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *manualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type tickers struct {
	mu  sync.Mutex
	all []*manualTicker
}

func (ts *tickers) new(time.Duration) Ticker {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time)}
	ts.all = append(ts.all, t)
	return t
}

func (ts *tickers) latest() *manualTicker {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if len(ts.all) == 0 {
		return nil
	}
	return ts.all[len(ts.all)-1]
}

func (ts *tickers) count() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.all)
}

// running returns the tickers that have not been stopped.
func (ts *tickers) running() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	n := 0
	for _, t := range ts.all {
		if !t.Stopped() {
			n++
		}
	}
	return n
}

type fakeWallet struct {
	mu        sync.Mutex
	connected bool
	result    types.WalletPaymentResult
	calls     int
}

func (w *fakeWallet) IsConnected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

func (w *fakeWallet) PayWithWallet(context.Context, string, *types.Payment) types.WalletPaymentResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	return w.result
}

func (w *fakeWallet) setConnected(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connected = v
}

var _ clients.Socket = (*fakeSocket)(nil)
