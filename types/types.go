package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UIState is the server-declared phase of a payment session.
type UIState string

const (
	StateWait      UIState = "wait"
	StateChoose    UIState = "choose"
	StatePayment   UIState = "payment"
	StateCompleted UIState = "completed"
	StateExpired   UIState = "expired"
	StateError     UIState = "error"
)

// IsTerminal reports whether no further transition may leave the state.
func (s UIState) IsTerminal() bool {
	return s == StateCompleted || s == StateExpired || s == StateError
}

// Rank orders the forward flow wait → choose → payment → completed.
// Terminal failure states rank above everything so they are absorbing.
func (s UIState) Rank() int {
	switch s {
	case StateWait:
		return 0
	case StateChoose:
		return 1
	case StatePayment:
		return 2
	case StateCompleted:
		return 3
	case StateExpired, StateError:
		return 4
	default:
		return -1
	}
}

// IsKnown reports whether s is one of the declared states.
func (s UIState) IsKnown() bool {
	return s.Rank() >= 0
}

func (s UIState) String() string {
	return string(s)
}

// Payment is the amount/item the payer must settle once chosen.
type Payment struct {
	// Merchant payment identifier used to request a signable transaction.
	ID string `json:"id"`

	// Amount due in US dollars. The backend sends it as a string ("25.00").
	AmountUSD decimal.Decimal `json:"amount_usd"`

	// Optional label shown under the amount.
	ItemName string `json:"item_name,omitempty"`
}

// DisplayAmount renders the amount the way the payment screen shows it.
func (p Payment) DisplayAmount() string {
	return fmt.Sprintf("%s USD", p.AmountUSD.StringFixed(2))
}

// SessionSnapshot is the client-side mirror of a server session.
type SessionSnapshot struct {
	UIState  UIState  `json:"uiState" validate:"required"`
	QRID     string   `json:"qrId"`
	Payment  *Payment `json:"payment,omitempty"`
	TimeLeft *int     `json:"timeLeft,omitempty" validate:"omitempty,gte=0"`
}

// Countdown returns the authoritative seconds left, if the server sent any.
func (s *SessionSnapshot) Countdown() (int, bool) {
	if s == nil || s.TimeLeft == nil {
		return 0, false
	}
	return *s.TimeLeft, true
}

// StateEnvelope is the response of GET /api/payment/{sessionKey}/state.
type StateEnvelope struct {
	Success bool             `json:"success"`
	Data    *SessionSnapshot `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// QRResponse is the response of POST /api/payment/{sessionKey}/qr.
type QRResponse struct {
	// Data URL or link rendered as the QR image.
	QRCode string `json:"qr_code"`
}

// TransactionRequest is the body of POST /api/payment/merchant/{paymentId}/transaction.
type TransactionRequest struct {
	Account string `json:"account"`
}

// TransactionResponse carries a base64 encoded unsigned transaction.
type TransactionResponse struct {
	Transaction string `json:"transaction"`
}

// WalletPayRequest is the body of POST /api/payment/{sessionKey}/wallet-pay.
type WalletPayRequest struct {
	WalletAddress string `json:"walletAddress"`
	TransactionID string `json:"transactionId"`
}

// APIEnvelope is the generic success/error envelope used by the backend.
type APIEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// WalletPaymentResult is the outcome of a wallet payment attempt.
type WalletPaymentResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	Error         string `json:"error,omitempty"`
	Code          string `json:"code,omitempty"`
}
