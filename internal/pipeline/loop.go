package pipeline

import (
	"context"
	"log/slog"
	"time"
)

type Job interface {
	Run(ctx context.Context) (int, error)
}

// Loop runs job until ctx is cancelled. It waits idle after an empty batch and
// backoff after a failed one; a batch that did work is followed immediately.
func Loop(ctx context.Context, name string, job Job, idle, backoff time.Duration) {
	for {
		n, err := job.Run(ctx)

		wait := time.Duration(0)
		switch {
		case err != nil:
			slog.Error("batch failed", "job", name, "error", err)
			wait = backoff
		case n == 0:
			wait = idle
		}

		if ctx.Err() != nil {
			slog.Info("stopping", "job", name)
			return
		}
		if wait == 0 {
			continue
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			slog.Info("stopping", "job", name)
			return
		case <-t.C:
		}
	}
}
