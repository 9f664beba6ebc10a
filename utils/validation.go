package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vitwit/paysession/types"
)

var (
	base58Pattern     = regexp.MustCompile("^[1-9A-HJ-NP-Za-km-z]+$")
	sessionKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_\-.]{1,256}$`)
)

// ValidateAmount checks that a payment amount is positive.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("amount cannot be negative")
	}

	if amount.IsZero() {
		return fmt.Errorf("amount must be greater than zero")
	}

	return nil
}

// ValidateSessionKey checks that a session key can be embedded in the
// backend URLs.
func ValidateSessionKey(key string) error {
	if key == "" {
		return types.NewError(types.ErrInvalidSessionKey, "session key is missing", nil)
	}

	if !sessionKeyPattern.MatchString(key) {
		return types.NewError(types.ErrInvalidSessionKey, fmt.Sprintf("malformed session key %q", key), nil)
	}

	return nil
}

// SessionKeyFromURL extracts the session query parameter of a payment page URL.
// A bare key is returned unchanged.
func SessionKeyFromURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", types.NewError(types.ErrInvalidSessionKey, "session key is missing", nil)
	}

	if !strings.Contains(raw, "?") && !strings.Contains(raw, "://") {
		return raw, ValidateSessionKey(raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", types.NewError(types.ErrInvalidSessionKey, "invalid payment page URL", err)
	}

	key := u.Query().Get("session")
	return key, ValidateSessionKey(key)
}

// ValidateSignature validates a Solana transaction signature.
func ValidateSignature(sig string) error {
	if sig == "" {
		return fmt.Errorf("transaction signature cannot be empty")
	}

	// base58 encoded 64 bytes, typically 87-88 characters
	if len(sig) < 80 || len(sig) > 90 {
		return fmt.Errorf("Solana transaction signature has invalid length")
	}

	if !base58Pattern.MatchString(sig) {
		return fmt.Errorf("Solana transaction signature must be valid base58")
	}

	return nil
}

// ValidateAddress validates a base58 Solana account address.
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if len(address) < 32 || len(address) > 44 {
		return fmt.Errorf("Solana address has invalid length")
	}

	if !base58Pattern.MatchString(address) {
		return fmt.Errorf("Solana address must be valid base58")
	}

	return nil
}

// Shorten keeps the first head and last tail characters of s.
func Shorten(s string, head, tail int) string {
	if len(s) <= head+tail+3 {
		return s
	}
	return s[:head] + "..." + s[len(s)-tail:]
}

// ShortenAddress formats a wallet address for a button label.
func ShortenAddress(address string) string {
	return Shorten(address, 6, 4)
}

// ShortenSignature formats a transaction signature for display.
func ShortenSignature(sig string) string {
	return Shorten(sig, 8, 8)
}
