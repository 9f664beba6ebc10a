package metrics

import "time"

// Recorder receives client-side counters and latencies.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// Event names used by the session controller and wallet adapter.
const (
	EventTransition    = "state_transition"
	EventSocketMessage = "socket_message"
	EventQR            = "qr_generation"
	EventWalletPayment = "wallet_payment"

	OpBackendCall = "backend_call"
)
