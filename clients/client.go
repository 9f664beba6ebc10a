package clients

import (
	"context"

	"github.com/vitwit/paysession/types"
)

// Backend is the payment backend REST surface consumed by the client.
type Backend interface {
	SessionState(ctx context.Context, sessionKey string) (*types.SessionSnapshot, error)
	GenerateQR(ctx context.Context, sessionKey string) (string, error)
	CreateTransaction(ctx context.Context, paymentID, account string) (string, error)
	RecordWalletPayment(ctx context.Context, sessionKey, walletAddress, signature string) error
}

// Socket is one session push channel. Receive blocks until a frame,
// a close, or an error arrives.
type Socket interface {
	Send(msg types.ClientMessage) error
	Receive() (*types.ServerMessage, error)
	Close() error
}

var (
	_ Backend = (*APIClient)(nil)
	_ Socket  = (*SessionSocket)(nil)
)
