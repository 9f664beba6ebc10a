package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MessageType discriminates WebSocket frames.
type MessageType string

const (
	// client → server
	MsgStatusRequest MessageType = "status_request"

	// server → client
	MsgSessionConnected MessageType = "session_connected"
	MsgSessionStatus    MessageType = "session_status"
	MsgPaymentCreated   MessageType = "payment_created"
	MsgQRGenerated      MessageType = "qr_generated"
	MsgPaymentCompleted MessageType = "payment_completed"
	MsgSessionExpired   MessageType = "session_expired"
	MsgSessionInvalid   MessageType = "session_invalid"
)

// ClientMessage is a frame sent by the client.
type ClientMessage struct {
	Type MessageType `json:"type"`
}

// ServerMessage is a frame pushed by the backend. Which fields are set
// depends on Type; Data is decoded lazily because its shape varies.
type ServerMessage struct {
	Type     MessageType     `json:"type"`
	UIState  UIState         `json:"uiState,omitempty"`
	TimeLeft *int            `json:"timeLeft,omitempty"`
	QRID     string          `json:"qrId,omitempty"`
	Payment  *Payment        `json:"payment,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// PaymentCompletion is the data of a payment_completed frame.
type PaymentCompletion struct {
	AmountUSD decimal.Decimal `json:"amount_usd"`
	Amount    decimal.Decimal `json:"amount"`
	Signature string          `json:"signature"`
}

// DecodePayment returns the Payment carried by a payment_created frame.
func (m *ServerMessage) DecodePayment() (*Payment, error) {
	if len(m.Data) == 0 {
		return m.Payment, nil
	}
	var p Payment
	if err := json.Unmarshal(m.Data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeCompletion returns the data of a payment_completed frame.
func (m *ServerMessage) DecodeCompletion() (*PaymentCompletion, error) {
	var c PaymentCompletion
	if len(m.Data) == 0 {
		return &c, nil
	}
	if err := json.Unmarshal(m.Data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// DecodeSnapshot returns the full snapshot carried by a session_status
// frame. The snapshot may be nested under data or flattened on the frame.
func (m *ServerMessage) DecodeSnapshot() (*SessionSnapshot, error) {
	if len(m.Data) > 0 {
		var s SessionSnapshot
		if err := json.Unmarshal(m.Data, &s); err != nil {
			return nil, err
		}
		if s.UIState != "" {
			if s.TimeLeft == nil {
				s.TimeLeft = m.TimeLeft
			}
			return &s, nil
		}
	}
	return &SessionSnapshot{
		UIState:  m.UIState,
		QRID:     m.QRID,
		Payment:  m.Payment,
		TimeLeft: m.TimeLeft,
	}, nil
}
