// Package graceful provides a root context that ends on SIGINT or SIGTERM.
package graceful

import (
	"context"
	"os/signal"
	"syscall"
)

// Context returns a context canceled when the process receives an interrupt
// or termination signal. Call the returned cancel to stop listening.
func Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
