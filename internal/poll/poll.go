// Package poll runs a task on a fixed interval for as long as a context lives.
package poll

import (
	"context"
	"log/slog"
	"time"
)

// Every calls fn immediately and then once per interval until ctx is done.
// An error from fn is logged and the loop keeps going; the next tick is the
// retry. Every returns ctx.Err() once the context ends.
func Every(ctx context.Context, interval time.Duration, logger *slog.Logger, fn func(context.Context) error) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	run := func() {
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			logger.WarnContext(ctx, "poll task failed", "error", err)
		}
	}

	run()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			run()
		}
	}
}
