package dispatch

import "time"

// Config controls the static schedule used to stay under a provider's rate limit.
type Config struct {
	// ChunkSize is the number of tasks in flight at once. Must be at least 1.
	ChunkSize int

	// Pause is the cooldown between consecutive chunks. Must not be negative.
	Pause time.Duration

	// ContinueOnError keeps dispatching after a task fails and returns the
	// successful results alongside a *PartialError. The default is fail-fast.
	ContinueOnError bool
}

// DefaultConfig matches the schedule used for chat completion batches:
// ten requests, then a one second cooldown.
func DefaultConfig() Config {
	return Config{
		ChunkSize: 10,
		Pause:     time.Second,
	}
}

func (c Config) validate() error {
	if c.ChunkSize < 1 {
		return &ConfigError{Field: "ChunkSize", Err: ErrInvalidChunkSize}
	}
	if c.Pause < 0 {
		return &ConfigError{Field: "Pause", Err: ErrNegativePause}
	}
	return nil
}
