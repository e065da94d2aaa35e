package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChunkSize is returned when the chunk size is below 1.
	ErrInvalidChunkSize = errors.New("chunk size must be at least 1")

	// ErrNegativePause is returned when the pause between chunks is negative.
	ErrNegativePause = errors.New("pause must not be negative")
)

// ConfigError rejects a dispatch before any task runs.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid dispatch config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TaskError records which work item failed and why.
type TaskError struct {
	Index int
	Item  any
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d failed: %v", e.Index, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// BatchError is returned in fail-fast mode. It wraps the first task failure
// observed at the barrier of Chunk; no later chunk was started.
type BatchError struct {
	Chunk int
	Task  *TaskError
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch aborted at chunk %d: %v", e.Chunk, e.Task)
}

func (e *BatchError) Unwrap() error {
	return e.Task
}

// PartialError lists every failed task, in input order, when ContinueOnError is set.
type PartialError struct {
	Failures []*TaskError
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%d task(s) failed, first: %v", len(e.Failures), e.Failures[0])
}

func (e *PartialError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// IsTaskError reports whether err wraps a task failure.
func IsTaskError(err error) bool {
	var taskErr *TaskError
	return errors.As(err, &taskErr)
}

// FailedIndex returns the input index of the first failed task wrapped by err.
func FailedIndex(err error) (int, bool) {
	var taskErr *TaskError
	if errors.As(err, &taskErr) {
		return taskErr.Index, true
	}
	return 0, false
}
