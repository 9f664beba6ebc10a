package session

import (
	"github.com/vitwit/paysession/clients"
	"github.com/vitwit/paysession/metrics"
	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/ui"
	"github.com/vitwit/paysession/utils"
)

// event is one unit of work for the Run loop.
type event interface {
	apply(c *Controller)
}

// SelectCoin records the payer's coin choice and unlocks the network
// control.
func (c *Controller) SelectCoin(coin types.Coin) { c.post(coinSelected{coin: coin}) }

// SelectNetwork records the payer's network choice. It is ignored until a
// coin has been chosen.
func (c *Controller) SelectNetwork(network types.Network) {
	c.post(networkSelected{network: network})
}

// Pay confirms the selection and requests the payment QR code.
func (c *Controller) Pay() { c.post(payRequested{}) }

// PayWithWallet pays the session from the connected wallet.
func (c *Controller) PayWithWallet() { c.post(walletPayRequested{}) }

// WalletConnected and WalletDisconnected refresh the wallet-pay control.
func (c *Controller) WalletConnected(string) { c.post(walletChanged{}) }
func (c *Controller) WalletDisconnected() { c.post(walletChanged{}) }

type coinSelected struct{ coin types.Coin }

func (e coinSelected) apply(c *Controller) {
	if c.state != types.StateChoose {
		return
	}
	c.selection.Coin = e.coin
	c.coinChosen = true

	c.els[ui.CoinSelect].SetText(string(e.coin))
	c.els[ui.NetworkSelect].SetEnabled(true)
	c.renderPayButton()
	c.update(func(s *Snapshot) { s.Selection = c.selection })
}

type networkSelected struct{ network types.Network }

func (e networkSelected) apply(c *Controller) {
	if c.state != types.StateChoose {
		return
	}
	if !c.coinChosen {
		c.log.Debug("network selection before coin ignored", map[string]any{"network": e.network})
		return
	}
	c.selection.Network = e.network

	c.els[ui.NetworkSelect].SetText(string(e.network))
	c.renderPayButton()
	c.update(func(s *Snapshot) { s.Selection = c.selection })
}

type payRequested struct{}

func (payRequested) apply(c *Controller) {
	switch c.state {
	case types.StateChoose:
		if c.payment == nil || !c.selection.IsSupported() {
			return
		}
		c.requestQR()
	case types.StatePayment:
		if !c.qrShown {
			c.requestQR()
		}
	}
}

type walletPayRequested struct{}

func (walletPayRequested) apply(c *Controller) {
	if c.state != types.StatePayment || c.wallet == nil || c.walletInFlight || c.payment == nil {
		return
	}
	if !c.wallet.IsConnected() {
		c.page.Alert(types.MsgWalletNotConnected)
		return
	}

	c.walletInFlight = true
	c.update(func(s *Snapshot) { s.WalletInFlight = true })
	btn := c.els[ui.WalletPayButton]
	btn.SetEnabled(false)
	btn.SetText(walletProcessingLabel)

	ctx, w, key, payment := c.ctx, c.wallet, c.key, c.payment
	go func() {
		c.post(walletPayResult{res: w.PayWithWallet(ctx, key, payment)})
	}()
}

type walletPayResult struct{ res types.WalletPaymentResult }

func (e walletPayResult) apply(c *Controller) {
	c.walletInFlight = false
	defer c.update(func(s *Snapshot) {
		s.WalletInFlight = false
		s.Signature = c.signature
	})
	if c.state.IsTerminal() {
		return
	}

	if e.res.Success {
		c.signature = e.res.TransactionID
		c.els[ui.WalletPayButton].SetText(walletSentLabel)
		return
	}

	c.renderWalletButton()
	c.page.Alert(e.res.Error)
}

type walletChanged struct{}

func (walletChanged) apply(c *Controller) {
	if c.state == types.StatePayment {
		c.renderWalletButton()
	}
}

type qrResult struct {
	src string
	err error
}

func (e qrResult) apply(c *Controller) {
	c.qrInFlight = false
	defer c.update(func(s *Snapshot) { s.QRInFlight = false })
	if c.state.IsTerminal() {
		return
	}

	if e.err != nil {
		c.metrics.IncCounter(metrics.EventQR, map[string]string{"label": "failure"})
		c.log.Warn("QR generation failed", map[string]any{"error": e.err})
		switch c.state {
		case types.StateChoose:
			c.renderPayButton()
		case types.StatePayment:
			c.els[ui.PayButton].SetVisible(true)
			c.renderPayButton()
		}
		c.showInline(qrFailedMessage, ui.ToneError)
		return
	}

	c.metrics.IncCounter(metrics.EventQR, map[string]string{"label": "success"})
	c.qrShown = true
	c.qr.SetImage(e.src, qrAlt)
	defer c.update(func(s *Snapshot) { s.QRImage = e.src })
	if c.state != types.StatePayment {
		c.enter(types.StatePayment)
		return
	}
	c.renderPayment()
}

type malformedFrame struct{ err error }

func (e malformedFrame) apply(c *Controller) {
	c.metrics.IncCounter(metrics.EventSocketMessage, map[string]string{"label": "malformed"})
	c.log.Warn("malformed socket frame skipped", map[string]any{"error": e.err})
}

type socketClosed struct{ err error }

func (e socketClosed) apply(c *Controller) {
	if c.state.IsTerminal() {
		return
	}

	if clients.IsPolicyViolation(e.err) {
		c.log.Info("session socket closed by policy", nil)
		c.enter(types.StateExpired)
		return
	}
	c.fail(types.NewError(types.ErrTransport, "session socket lost", e.err))
}

type socketMessage struct{ msg *types.ServerMessage }

func (e socketMessage) apply(c *Controller) {
	msg := e.msg
	c.metrics.IncCounter(metrics.EventSocketMessage, map[string]string{"label": string(msg.Type)})
	c.log.Debug("socket message", map[string]any{"type": msg.Type})
	if c.state.IsTerminal() {
		return
	}

	switch msg.Type {
	case types.MsgSessionConnected:
		if msg.TimeLeft != nil {
			c.armCountdown(*msg.TimeLeft)
		}

	case types.MsgSessionStatus:
		snap, err := msg.DecodeSnapshot()
		if err == nil {
			err = utils.ValidateSnapshot(snap)
		}
		if err != nil {
			c.log.Warn("invalid session status skipped", map[string]any{"error": err})
			return
		}
		c.applySnapshot(snap, false)

	case types.MsgPaymentCreated:
		c.onPaymentCreated(msg)

	case types.MsgQRGenerated:
		if msg.UIState != "" && msg.UIState != types.StatePayment {
			return
		}
		switch c.state {
		case types.StateChoose:
			c.enter(types.StatePayment)
		case types.StatePayment:
			c.renderPayment()
		}

	case types.MsgPaymentCompleted:
		c.onPaymentCompleted(msg)

	case types.MsgSessionExpired, types.MsgSessionInvalid:
		c.enter(types.StateExpired)

	default:
		c.log.Debug("unhandled socket message", map[string]any{"type": msg.Type})
	}
}

func (c *Controller) onPaymentCreated(msg *types.ServerMessage) {
	if c.state != types.StateWait && c.state != types.StateChoose {
		return
	}
	if msg.UIState != "" && msg.UIState != types.StateChoose {
		return
	}

	p, err := msg.DecodePayment()
	if err == nil && p == nil {
		err = types.NewError(types.ErrInvalidPayload, "payment_created without payment", nil)
	}
	if err == nil {
		err = utils.ValidateAmount(p.AmountUSD)
	}
	if err != nil {
		c.log.Warn("invalid payment skipped", map[string]any{"error": err})
		return
	}

	c.setPayment(p)
	c.enter(types.StateChoose)
}

func (c *Controller) onPaymentCompleted(msg *types.ServerMessage) {
	if c.state != types.StatePayment {
		c.log.Warn("payment completion outside payment state ignored", map[string]any{"state": c.state})
		return
	}

	done, err := msg.DecodeCompletion()
	if err != nil {
		c.log.Warn("invalid payment completion", map[string]any{"error": err})
		done = &types.PaymentCompletion{}
	}
	if done.Signature != "" {
		if err := utils.ValidateSignature(done.Signature); err != nil {
			c.log.Warn("completion signature ignored", map[string]any{"signature": done.Signature, "error": err})
			done.Signature = ""
		}
	}
	if done.Signature != "" {
		c.signature = done.Signature
		c.update(func(s *Snapshot) { s.Signature = done.Signature })
	}
	c.enter(types.StateCompleted)
}
