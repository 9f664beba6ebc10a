package session

import (
	"fmt"

	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/ui"
	"github.com/vitwit/paysession/utils"
)

const (
	waitTitle      = "Waiting for Payment"
	chooseTitle    = "Choose Payment Method"
	paymentTitle   = "Scan to Pay"
	completedTitle = "Payment Successful"

	expiredTitle   = "Session Expired"
	expiredMessage = "This payment session has expired."
	errorTitle     = "404 Not Found"
	errorMessage   = "This payment session does not exist or is no longer available."

	chooseLabel      = "Choose Network & Coin"
	payLabel         = "Pay Now"
	unsupportedLabel = "Only USDC on Solana supported"
	creatingQRLabel  = "Creating QR..."

	coinPlaceholder    = "Choose Coin"
	networkPlaceholder = "Choose Network"

	walletPayLabel        = "Pay with Wallet"
	walletProcessingLabel = "Processing..."
	walletSentLabel       = "Payment Sent"

	qrAlt           = "Payment QR Code"
	qrHint          = "Scan with Solana wallet"
	qrFailedMessage = "Failed to generate QR code"
)

// initControls puts the screen in its pre-bootstrap shape: nothing
// interactive until the session state is known.
func (c *Controller) initControls() {
	c.els[ui.CoinSelect].SetText(coinPlaceholder)
	c.els[ui.NetworkSelect].SetText(networkPlaceholder)
	c.els[ui.NetworkSelect].SetEnabled(false)
	c.els[ui.PayButton].SetEnabled(false)
	c.els[ui.PayButton].SetText(chooseLabel)
	c.setVisible(false, ui.AmountRow, ui.ItemRow, ui.QRCode, ui.PaymentInfo)
	c.hideControls()
}

func (c *Controller) setVisible(visible bool, keys ...ui.ElementKey) {
	for _, k := range keys {
		c.els[k].SetVisible(visible)
	}
}

func (c *Controller) hideControls() {
	c.setVisible(false, ui.NetworkSelect, ui.CoinSelect, ui.PayButton, ui.WalletPayButton)
}

func (c *Controller) renderWait() {
	c.els[ui.StatusTitle].SetText(waitTitle)
	c.hideControls()
}

func (c *Controller) renderChoose() {
	c.els[ui.StatusTitle].SetText(chooseTitle)
	c.renderPaymentInfo()

	coin, network := c.els[ui.CoinSelect], c.els[ui.NetworkSelect]
	coin.SetVisible(true)
	coin.SetEnabled(true)
	network.SetVisible(true)
	network.SetEnabled(c.coinChosen)
	if !c.coinChosen {
		coin.SetText(coinPlaceholder)
		network.SetText(networkPlaceholder)
	}

	c.els[ui.PayButton].SetVisible(true)
	c.els[ui.WalletPayButton].SetVisible(false)
	c.renderPayButton()
}

func (c *Controller) renderPayment() {
	c.els[ui.StatusTitle].SetText(paymentTitle)
	c.renderPaymentInfo()
	c.hideControls()
	c.renderWalletButton()

	if c.qrShown {
		c.qr.SetVisible(true)
		c.showInline(qrHint, ui.ToneNormal)
		return
	}
	c.requestQR()
}

func (c *Controller) renderCompleted() {
	c.els[ui.StatusTitle].SetText(completedTitle)
	c.hideControls()
	c.qr.SetVisible(false)

	msg := "Payment received"
	if c.signature != "" {
		msg = fmt.Sprintf("Payment received. Transaction: %s", utils.ShortenSignature(c.signature))
	}
	c.showInline(msg, ui.ToneSuccess)
}

func (c *Controller) renderPaymentInfo() {
	if c.payment == nil {
		return
	}
	c.els[ui.AmountValue].SetText(c.payment.DisplayAmount())
	c.els[ui.AmountRow].SetVisible(true)

	if c.payment.ItemName != "" {
		c.els[ui.ItemValue].SetText(c.payment.ItemName)
		c.els[ui.ItemRow].SetVisible(true)
	} else {
		c.els[ui.ItemRow].SetVisible(false)
	}
}

// renderPayButton applies the selection gate: enabled only for the one
// supported network and coin pair. In the payment state it is the retry
// control for a failed QR request.
func (c *Controller) renderPayButton() {
	btn := c.els[ui.PayButton]
	switch {
	case c.qrInFlight:
		btn.SetEnabled(false)
		btn.SetText(creatingQRLabel)
	case c.state == types.StatePayment:
		btn.SetEnabled(true)
		btn.SetText(payLabel)
	case !c.selection.IsComplete():
		btn.SetEnabled(false)
		btn.SetText(chooseLabel)
	case c.selection.IsSupported():
		btn.SetEnabled(true)
		btn.SetText(payLabel)
	default:
		btn.SetEnabled(false)
		btn.SetText(unsupportedLabel)
	}
}

func (c *Controller) renderWalletButton() {
	btn := c.els[ui.WalletPayButton]
	if c.wallet == nil || !c.wallet.IsConnected() {
		btn.SetVisible(false)
		return
	}
	btn.SetVisible(true)
	if c.walletInFlight {
		btn.SetEnabled(false)
		btn.SetText(walletProcessingLabel)
		return
	}
	btn.SetEnabled(true)
	btn.SetText(walletPayLabel)
}

func (c *Controller) showInline(msg string, tone ui.Tone) {
	info := c.els[ui.PaymentInfo]
	info.SetText(msg)
	info.SetTone(tone)
	info.SetVisible(true)
}

// requestQR starts a QR generation unless one is already in flight.
func (c *Controller) requestQR() {
	if c.qrInFlight {
		return
	}
	c.qrInFlight = true
	c.update(func(s *Snapshot) { s.QRInFlight = true })
	if c.state == types.StateChoose || c.state == types.StatePayment {
		c.renderPayButton()
	}

	ctx, key := c.ctx, c.key
	go func() {
		src, err := c.backend.GenerateQR(ctx, key)
		c.post(qrResult{src: src, err: err})
	}()
}
