package usecase

import (
	"context"
)

const (
	DefaultAcceptMaxAttempts = 4
	DefaultSweepPasses       = 2
)

// withConflictRetry runs attempt with n = 1..maxAttempts while it asks for a
// retry. An attempt asks for a retry only when its conditional write lost an
// optimistic race; any other result ends the loop. Exhausting the budget
// yields ErrConflict.
func withConflictRetry(ctx context.Context, maxAttempts int, onConflict func(n int), attempt func(n int) (retry bool, err error)) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for n := 1; n <= maxAttempts; n++ {
		retry, err := attempt(n)
		if !retry {
			return err
		}
		if onConflict != nil {
			onConflict(n)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return ErrConflict
}
