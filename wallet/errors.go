package wallet

import (
	"errors"
	"strings"

	"github.com/vitwit/paysession/types"
)

// classify maps a payment failure to the result shown to the payer.
// Typed failures keep their code; anything else is matched on known
// substrings of the provider or RPC error.
func classify(err error) types.WalletPaymentResult {
	var pe *types.PaySessionError
	if errors.As(err, &pe) {
		switch pe.Code {
		case types.ErrWalletNotConnected,
			types.ErrProviderUnavailable,
			types.ErrTransactionCreationFailed,
			types.ErrPaymentRecordingFailed:
			return failure(pe.Code, pe.Message)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "User rejected"):
		return failure(types.ErrUserRejected, types.MsgUserRejected)
	case strings.Contains(msg, "403"), strings.Contains(msg, "Forbidden"):
		return failure(types.ErrRateLimited, types.MsgRateLimited)
	}

	if pe != nil && pe.Message != "" {
		return failure(types.ErrTransactionFailed, pe.Message)
	}
	if msg == "" {
		msg = types.MsgTransactionFailed
	}
	return failure(types.ErrTransactionFailed, msg)
}

func failure(code, msg string) types.WalletPaymentResult {
	return types.WalletPaymentResult{Success: false, Error: msg, Code: code}
}
