package platform

import (
	"context"
	"os"
	"os/signal"
)

// NewShutdownContext creates a context that is canceled when the host shell
// asks the bridge process to stop.
func NewShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, ShutdownSignals()...)
}

// ShutdownSignals returns the signals that stop the bridge on this platform
func ShutdownSignals() []os.Signal {
	signals := make([]os.Signal, len(shutdownSignals))
	copy(signals, shutdownSignals)
	return signals
}
