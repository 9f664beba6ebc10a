// Package ui defines the handles the session controller and wallet
// adapter render through. A browser shell, a terminal, or a test fake can
// implement them.
package ui

import (
	"fmt"

	"github.com/vitwit/paysession/types"
)

// Tone is the visual emphasis of an element.
type Tone int

const (
	ToneNormal Tone = iota
	ToneWarning
	ToneError
	ToneSuccess
)

// Element is one bound screen control.
type Element interface {
	SetText(text string)
	SetVisible(visible bool)
	SetEnabled(enabled bool)
	SetTone(tone Tone)
}

// ImageElement is an element that can show an image, such as a QR code.
type ImageElement interface {
	Element
	SetImage(src, alt string)
}

// Page is the whole screen.
type Page interface {
	// ShowTerminal replaces the page with a full-page message.
	ShowTerminal(title, message string)

	// Alert shows a blocking, dismissable message.
	Alert(message string)
}

// ElementKey enumerates the controls bound at construction.
type ElementKey string

const (
	StatusTitle     ElementKey = "statusTitle"
	QRCodeID        ElementKey = "qrCodeId"
	TimeLeft        ElementKey = "timeLeft"
	AmountRow       ElementKey = "amountRow"
	AmountValue     ElementKey = "amountValue"
	ItemRow         ElementKey = "itemRow"
	ItemValue       ElementKey = "itemValue"
	NetworkSelect   ElementKey = "dropdownBtnNetwork"
	CoinSelect      ElementKey = "dropdownBtnCoin"
	PayButton       ElementKey = "generateBtn"
	QRCode          ElementKey = "qrcode"
	PaymentInfo     ElementKey = "paymentInfo"
	WalletPayButton ElementKey = "walletPayBtn"

	// WalletButton is the connect/disconnect control owned by the wallet
	// adapter.
	WalletButton ElementKey = "walletButton"
)

// RequiredKeys are the elements the payment screen cannot work without.
var RequiredKeys = []ElementKey{
	StatusTitle, QRCodeID, TimeLeft,
	AmountRow, AmountValue, ItemRow, ItemValue,
	NetworkSelect, CoinSelect, PayButton,
	QRCode, PaymentInfo, WalletPayButton,
}

// Elements maps keys to bound controls.
type Elements map[ElementKey]Element

// MissingElementError reports a required element absent at construction.
type MissingElementError struct {
	Key ElementKey
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("required element %q is missing", e.Key)
}

// Is lets errors.Is match the generic missing-element code.
func (e *MissingElementError) Is(target error) bool {
	t, ok := target.(*types.PaySessionError)
	return ok && t.Code == types.ErrMissingElement
}

// Check returns a *MissingElementError for the first required key that is
// absent or nil. The QR element must also be an ImageElement.
func (e Elements) Check() error {
	for _, k := range RequiredKeys {
		if el, ok := e[k]; !ok || el == nil {
			return &MissingElementError{Key: k}
		}
	}
	if _, ok := e[QRCode].(ImageElement); !ok {
		return &MissingElementError{Key: QRCode}
	}
	return nil
}
