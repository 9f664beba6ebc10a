package session

import (
	"time"

	"github.com/vitwit/paysession/types"

	"github.com/vitwit/paysession/logger"
	"github.com/vitwit/paysession/metrics"
)

type Option func(*Controller)

func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(c *Controller) {
		c.metrics = r
	}
}

// WithWallet enables the pay-with-wallet path.
func WithWallet(w Wallet) Option {
	return func(c *Controller) {
		c.wallet = w
	}
}

// WithTicker replaces the one-second countdown ticker factory.
func WithTicker(fn func(time.Duration) Ticker) Option {
	return func(c *Controller) {
		c.newTicker = fn
	}
}

// OnStateChange registers fn for every transition. fn runs on the Run
// goroutine after the new state is drawn and must not block.
func OnStateChange(fn func(types.UIState)) Option {
	return func(c *Controller) {
		c.onState = fn
	}
}
