package clock

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// BackoffConfig describes an exponential backoff schedule.
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     bool
}

// DefaultBackoff starts at one second and caps at one minute.
func DefaultBackoff() BackoffConfig {
	return BackoffConfig{
		Initial:    time.Second,
		Max:        time.Minute,
		Multiplier: 2,
		Jitter:     true,
	}
}

// Backoff yields growing delays. Not safe for concurrent use.
type Backoff struct {
	cfg     BackoffConfig
	attempt int
}

func NewBackoff(cfg BackoffConfig) *Backoff {
	if cfg.Initial <= 0 {
		cfg.Initial = time.Second
	}
	if cfg.Max < cfg.Initial {
		cfg.Max = cfg.Initial
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	return &Backoff{cfg: cfg}
}

// Next returns the delay for the next attempt.
func (b *Backoff) Next() time.Duration {
	delay := float64(b.cfg.Initial) * math.Pow(b.cfg.Multiplier, float64(b.attempt))
	if delay > float64(b.cfg.Max) {
		delay = float64(b.cfg.Max)
	} else {
		b.attempt++
	}
	if b.cfg.Jitter {
		// +-15%
		delay += (rand.Float64()*0.3 - 0.15) * delay
	}
	return time.Duration(delay)
}

// Reset restarts the schedule after a success.
func (b *Backoff) Reset() {
	b.attempt = 0
}

// Attempts reports how many delays were handed out since the last reset.
func (b *Backoff) Attempts() int {
	return b.attempt
}

// Retry calls fn until it succeeds, maxAttempts is reached or ctx is done.
func Retry(ctx context.Context, cfg BackoffConfig, maxAttempts int, logger *zap.Logger, operation string, fn func(context.Context) error) error {
	b := NewBackoff(cfg)
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		delay := b.Next()
		logger.Warn("operation failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		if sleepErr := SleepWithContext(ctx, delay); sleepErr != nil {
			return fmt.Errorf("%s: %w", operation, sleepErr)
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operation, maxAttempts, err)
}
