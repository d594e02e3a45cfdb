package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

// permanentError marks a failure that retrying cannot fix
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// permanent wraps err so that withRetry gives up immediately
func permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// isRetryableError checks if an error is worth another attempt
func isRetryableError(err error) bool {
	var perm *permanentError
	if errors.As(err, &perm) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// normalizePolicy fills zero fields from the default policy
func normalizePolicy(p model.RetryPolicy) model.RetryPolicy {
	def := model.DefaultRetryPolicy
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = def.InitialDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	if p.BackoffMultiplier < 1 {
		p.BackoffMultiplier = def.BackoffMultiplier
	}
	return p
}

// backoffDelay calculates the wait before the given retry attempt (1-based)
func backoffDelay(p model.RetryPolicy, attempt int) time.Duration {
	delay := time.Duration(float64(p.InitialDelay) * math.Pow(p.BackoffMultiplier, float64(attempt-1)))
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// withRetry runs fn until it succeeds, fails permanently, or the policy is exhausted.
// It returns the number of attempts made.
func withRetry(ctx context.Context, policy model.RetryPolicy, logger *slog.Logger, what string, fn func() error) (int, error) {
	policy = normalizePolicy(policy)

	var err error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return attempt, nil
		}
		if !isRetryableError(err) || attempt == policy.MaxAttempts {
			return attempt, err
		}

		delay := backoffDelay(policy, attempt)
		logger.WarnContext(ctx, "retrying after failure",
			slog.String("operation", what),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, fmt.Errorf("%s: %w", what, ctx.Err())
		case <-timer.C:
		}
	}
	return policy.MaxAttempts, err
}
