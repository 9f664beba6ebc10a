package wallet

import (
	"github.com/vitwit/paysession/logger"
	"github.com/vitwit/paysession/metrics"
)

type Option func(*Adapter)

func WithLogger(l logger.Logger) Option {
	return func(a *Adapter) {
		a.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(a *Adapter) {
		a.metrics = r
	}
}

// WithGlobals sets the registry of injected wallet objects.
func WithGlobals(g Globals) Option {
	return func(a *Adapter) {
		a.globals = g
	}
}

// WithResolvers replaces DefaultResolvers.
func WithResolvers(table []Resolver) Option {
	return func(a *Adapter) {
		a.resolvers = table
	}
}

// WithBroadcaster sets the RPC connection used for sign-only providers.
func WithBroadcaster(b Broadcaster) Option {
	return func(a *Adapter) {
		a.chain = b
	}
}

// OnConnected is called with the address of every new connection.
func OnConnected(fn func(address string)) Option {
	return func(a *Adapter) {
		a.onConnected = fn
	}
}

// OnDisconnected is called when the connected account goes away.
func OnDisconnected(fn func()) Option {
	return func(a *Adapter) {
		a.onDisconnected = fn
	}
}
