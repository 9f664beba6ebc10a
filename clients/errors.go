package clients

import (
	"errors"

	"github.com/gorilla/websocket"
)

// ClosePolicyViolation is the close code the backend uses to end a
// session it no longer accepts.
const ClosePolicyViolation = websocket.ClosePolicyViolation

// CloseCode returns the WebSocket close code carried by err, or 0.
func CloseCode(err error) int {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return 0
}

// IsPolicyViolation reports whether the socket was closed with code 1008.
func IsPolicyViolation(err error) bool {
	return CloseCode(err) == ClosePolicyViolation
}
