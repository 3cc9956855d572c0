package engine

import (
	"context"
	"errors"
	"time"

	"github.com/geo-martino/syncify/internal/shared"
)

// Outcome classifies one collaborator attempt. Retry loops consume outcomes
// rather than driving control flow off raw errors.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeTransient
	OutcomeConflict
	OutcomePermanent
)

// classify maps a collaborator error onto an attempt outcome. Conflicts are
// never retried; they require an operator decision, not another attempt.
func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, shared.ErrTransient):
		return OutcomeTransient
	case errors.Is(err, shared.ErrConflict):
		return OutcomeConflict
	default:
		return OutcomePermanent
	}
}

// retry runs fn up to maxAttempts times, sleeping with doubling backoff
// between transient failures. Permanent failures and context cancellation
// stop immediately. Returns the last error when all attempts fail.
func retry(ctx context.Context, maxAttempts int, backoff time.Duration, fn func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		err = fn(ctx)
		switch classify(err) {
		case OutcomeSuccess:
			return nil
		case OutcomeConflict, OutcomePermanent:
			return err
		}
	}

	return err
}
