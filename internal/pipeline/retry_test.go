package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

func TestBackoffDelay(t *testing.T) {
	p := model.RetryPolicy{MaxAttempts: 5, InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, BackoffMultiplier: 2}
	assert.Equal(t, 100*time.Millisecond, backoffDelay(p, 1))
	assert.Equal(t, 200*time.Millisecond, backoffDelay(p, 2))
	assert.Equal(t, 800*time.Millisecond, backoffDelay(p, 4))
	assert.Equal(t, time.Second, backoffDelay(p, 5))
}

func TestNormalizePolicy(t *testing.T) {
	assert.Equal(t, model.DefaultRetryPolicy, normalizePolicy(model.RetryPolicy{}))
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	calls := 0
	attempts, err := withRetry(ctx, fastRetry(), discardLogger(), "flaky", func() error {
		calls++
		if calls < 3 {
			return boom
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)

	attempts, err = withRetry(ctx, fastRetry(), discardLogger(), "broken", func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)

	attempts, err = withRetry(ctx, fastRetry(), discardLogger(), "fatal", func() error { return permanent(boom) })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := model.RetryPolicy{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, BackoffMultiplier: 1}

	attempts, err := withRetry(ctx, policy, discardLogger(), "slow", func() error {
		cancel()
		return errors.New("unavailable")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestTracker_ErrorCap(t *testing.T) {
	tr := NewTracker("run", model.LoadSpec{Sources: []model.Source{{Type: "csv", URL: "a.csv"}}})
	for i := 0; i < maxErrorDetails+5; i++ {
		tr.RecordError(StageValidation, "a.csv", errors.New("bad row"))
	}
	tr.RecordError(StageValidation, "a.csv", nil)

	r := tr.Report()
	assert.Len(t, r.Errors, maxErrorDetails)
	assert.Equal(t, int64(5), r.ErrorsOverflow)
	assert.Equal(t, int64(maxErrorDetails+5), r.SourceMetrics["a.csv"].ErrorCount)
	assert.Equal(t, "csv", r.SourceMetrics["a.csv"].SourceType)
}
