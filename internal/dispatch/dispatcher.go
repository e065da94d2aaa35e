// Package dispatch runs batches of independent remote calls on a static schedule:
// at most ChunkSize calls in flight, a barrier at the end of each chunk, and a fixed
// cooldown before the next chunk starts. It does not observe the remote rate limit,
// it only spaces requests out.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Executor performs exactly one remote call for item.
type Executor[T, R any] func(ctx context.Context, item T) (R, error)

// Dispatcher holds a validated schedule. It is safe to reuse across calls to Run.
type Dispatcher struct {
	cfg    Config
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

type Option func(*Dispatcher)

// WithLogger sets the logger used for chunk boundary messages. A nil logger
// keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithSleep replaces the cooldown implementation. Tests use it to count pauses.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(d *Dispatcher) {
		d.sleep = sleep
	}
}

func New(cfg Config, opts ...Option) (*Dispatcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	d := &Dispatcher{
		cfg:    cfg,
		logger: slog.Default(),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dispatch validates the schedule and runs items through exec in one call.
func Dispatch[T, R any](ctx context.Context, items []T, exec Executor[T, R], chunkSize int, pause time.Duration) ([]R, error) {
	d, err := New(Config{ChunkSize: chunkSize, Pause: pause})
	if err != nil {
		return nil, err
	}
	return Run(ctx, d, items, exec)
}

// Run executes every item and returns one result per item, out[i] for items[i].
//
// In fail-fast mode the first chunk containing a failure still runs to its barrier,
// then Run returns a *BatchError and no later task is started. With ContinueOnError
// all chunks run and failed slots hold the zero value of R.
func Run[T, R any](ctx context.Context, d *Dispatcher, items []T, exec Executor[T, R]) ([]R, error) {
	size := d.cfg.ChunkSize
	results := make([]R, len(items))
	chunks := (len(items) + size - 1) / size

	var failures []*TaskError
	for c := 0; c < chunks; c++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := c * size
		end := min(start+size, len(items))

		first, chunkFailures := runChunk(ctx, items, start, end, exec, results, !d.cfg.ContinueOnError)
		if first != nil && !d.cfg.ContinueOnError {
			return nil, &BatchError{Chunk: c, Task: first}
		}
		failures = append(failures, chunkFailures...)

		if c == chunks-1 || d.cfg.Pause == 0 {
			continue
		}

		d.logger.Debug("pausing between chunks", "chunk", c, "from", start, "to", end, "pause", d.cfg.Pause)
		if err := d.sleep(ctx, d.cfg.Pause); err != nil {
			return nil, err
		}
	}

	if len(failures) > 0 {
		return results, &PartialError{Failures: failures}
	}
	return results, nil
}

// runChunk fans out items[start:end] and waits for all of them. It returns the
// first failure seen by the group and every failure in index order.
func runChunk[T, R any](ctx context.Context, items []T, start, end int, exec Executor[T, R], results []R, cancelOnError bool) (*TaskError, []*TaskError) {
	var g *errgroup.Group
	gctx := ctx
	if cancelOnError {
		g, gctx = errgroup.WithContext(ctx)
	} else {
		g = new(errgroup.Group)
	}

	slots := make([]*TaskError, end-start)
	for i := start; i < end; i++ {
		g.Go(func() error {
			v, err := exec(gctx, items[i])
			if err != nil {
				taskErr := &TaskError{Index: i, Item: items[i], Err: err}
				slots[i-start] = taskErr
				return taskErr
			}
			results[i] = v
			return nil
		})
	}

	var first *TaskError
	if err := g.Wait(); err != nil {
		first = err.(*TaskError)
	}

	var failures []*TaskError
	for _, f := range slots {
		if f != nil {
			failures = append(failures, f)
		}
	}
	return first, failures
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
