package persistence

import (
	"context"
	"database/sql"
	"math"
	"time"

	"gateway-console/internal/domain/errors"
	"gateway-console/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// BackoffStrategy decides how long to wait before the next connection attempt
type BackoffStrategy interface {
	// NextInterval returns the wait after a failed attempt
	NextInterval() time.Duration
	// Reset returns the strategy to its initial state
	Reset()
}

// ExponentialBackoff grows the wait by multiplier after every failure, capped at maxInterval
type ExponentialBackoff struct {
	baseInterval time.Duration
	maxInterval  time.Duration
	multiplier   float64
	attempt      int
}

// NewExponentialBackoff creates an ExponentialBackoff. A multiplier of 1 or
// less selects 2.
func NewExponentialBackoff(baseInterval, maxInterval time.Duration, multiplier float64) *ExponentialBackoff {
	if multiplier <= 1 {
		multiplier = 2.0
	}
	return &ExponentialBackoff{
		baseInterval: baseInterval,
		maxInterval:  maxInterval,
		multiplier:   multiplier,
	}
}

// NextInterval returns base * multiplier^(failures-1), at most maxInterval
func (b *ExponentialBackoff) NextInterval() time.Duration {
	b.attempt++
	next := time.Duration(float64(b.baseInterval) * math.Pow(b.multiplier, float64(b.attempt-1)))
	if next > b.maxInterval || next <= 0 {
		next = b.maxInterval
	}
	return next
}

// Reset clears the failure count
func (b *ExponentialBackoff) Reset() {
	b.attempt = 0
}

// ConnectOptions bound the connection attempts made at startup
type ConnectOptions struct {
	MaxAttempts int
	Backoff     BackoffStrategy
	Clock       interfaces.Clock
}

// ConnectWithBackoff calls open until it succeeds, the attempts run out or
// ctx is done. The firewall database may come up after the console on a
// gateway, so only startup uses this; requests never retry.
func ConnectWithBackoff(ctx context.Context, opts ConnectOptions, logger *logrus.Logger, open func(context.Context) (*sql.DB, error)) (*sql.DB, error) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	defer opts.Backoff.Reset()

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		db, err := open(ctx)
		if err == nil {
			return db, nil
		}
		lastErr = err

		if attempt == opts.MaxAttempts {
			break
		}

		wait := opts.Backoff.NextInterval()
		logger.WithFields(logrus.Fields{
			"attempt":       attempt,
			"max_attempts":  opts.MaxAttempts,
			"next_interval": wait,
		}).WithError(err).Warn("Database connection failed, retrying")

		select {
		case <-ctx.Done():
			return nil, errors.WrapCollaborator(ctx.Err(), "database connection cancelled")
		case <-opts.Clock.After(wait):
		}
	}

	return nil, errors.NewUnavailableError("database unreachable after retries", lastErr)
}
