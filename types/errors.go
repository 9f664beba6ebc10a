package types

import (
	"errors"
	"fmt"
)

// PaySessionError is a typed failure carrying a stable code.
type PaySessionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *PaySessionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PaySessionError) Unwrap() error {
	return e.Cause
}

// Is matches any PaySessionError with the same code.
func (e *PaySessionError) Is(target error) bool {
	t, ok := target.(*PaySessionError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a PaySessionError.
func NewError(code, message string, cause error) *PaySessionError {
	return &PaySessionError{Code: code, Message: message, Cause: cause}
}

// ErrorCode extracts the code of a PaySessionError anywhere in err's chain.
func ErrorCode(err error) string {
	var pe *PaySessionError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// Common error codes
const (
	// session setup
	ErrInvalidSessionKey = "INVALID_SESSION_KEY"
	ErrSessionNotFound   = "SESSION_NOT_FOUND"
	ErrInvalidPayload    = "INVALID_PAYLOAD"
	ErrTransport         = "TRANSPORT_ERROR"
	ErrConfigError       = "CONFIG_ERROR"
	ErrMissingElement    = "MISSING_ELEMENT"

	// operations
	ErrQRGenerationFailed = "QR_GENERATION_FAILED"

	// wallet payment
	ErrWalletNotConnected        = "WALLET_NOT_CONNECTED"
	ErrProviderUnavailable       = "PROVIDER_UNAVAILABLE"
	ErrTransactionCreationFailed = "TRANSACTION_CREATION_FAILED"
	ErrPaymentRecordingFailed    = "PAYMENT_RECORDING_FAILED"
	ErrUserRejected              = "USER_REJECTED"
	ErrRateLimited               = "RATE_LIMITED"
	ErrTransactionFailed         = "TRANSACTION_FAILED"
)

// User-facing wallet messages.
const (
	MsgWalletNotConnected        = "Wallet not connected"
	MsgProviderUnavailable       = "Wallet provider not available"
	MsgTransactionCreationFailed = "Failed to create transaction"
	MsgPaymentRecordingFailed    = "Payment recording failed"
	MsgUserRejected              = "Transaction rejected by user"
	MsgRateLimited               = "RPC rate limit. Please try again or contact support."
	MsgTransactionFailed         = "Transaction failed"
	MsgSigningUnsupported        = "Wallet does not support transaction signing"
)
