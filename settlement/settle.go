// Package settlement waits for a wallet payment to settle on chain.
package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/vitwit/paysession/types"
)

const defaultInterval = 2 * time.Second

// StatusSource reports the cluster's view of a transaction signature.
type StatusSource interface {
	ConfirmationStatus(ctx context.Context, sig solana.Signature) (rpc.ConfirmationStatusType, error)
}

// SettlementResult is the outcome of waiting for a signature.
type SettlementResult struct {
	Signature string                     `json:"signature"`
	Status    rpc.ConfirmationStatusType `json:"status,omitempty"`
	Confirmed bool                       `json:"confirmed"`
	Error     string                     `json:"error,omitempty"`
}

// Confirmer polls a StatusSource until a signature reaches confirmed
// commitment.
type Confirmer struct {
	source   StatusSource
	timeout  time.Duration
	interval time.Duration
}

// NewConfirmer creates a confirmer. A zero interval polls every two
// seconds.
func NewConfirmer(source StatusSource, timeout, interval time.Duration) *Confirmer {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Confirmer{
		source:   source,
		timeout:  timeout,
		interval: interval,
	}
}

// Await blocks until signature is confirmed or finalized, the timeout
// passes, or ctx is done. Only a malformed signature is returned as an
// error; everything else is reported in the result.
func (c *Confirmer) Await(ctx context.Context, signature string) (*SettlementResult, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidPayload, fmt.Sprintf("invalid signature %q", signature), err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result := &SettlementResult{Signature: signature}
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		status, err := c.source.ConfirmationStatus(ctx, sig)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Status = status
			result.Error = ""
			if isSettled(status) {
				result.Confirmed = true
				return result, nil
			}
		}

		select {
		case <-ctx.Done():
			if result.Error == "" {
				result.Error = fmt.Sprintf("signature not confirmed: %v", ctx.Err())
			}
			return result, nil
		case <-ticker.C:
		}
	}
}

func isSettled(s rpc.ConfirmationStatusType) bool {
	return s == rpc.ConfirmationStatusConfirmed || s == rpc.ConfirmationStatusFinalized
}
