package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestWithConflictRetry(t *testing.T) {
	cases := []struct {
		name      string
		max       int
		conflicts int
		final     error
		wantErr   error
		wantCalls int
	}{
		{name: "first attempt wins", max: 4, conflicts: 0, wantCalls: 1},
		{name: "recovers after conflicts", max: 4, conflicts: 3, wantCalls: 4},
		{name: "budget exhausted", max: 4, conflicts: 10, wantErr: ErrConflict, wantCalls: 4},
		{name: "terminal error stops loop", max: 4, conflicts: 1, final: ErrRequestCancelled, wantErr: ErrRequestCancelled, wantCalls: 2},
		{name: "non-positive budget still tries once", max: 0, conflicts: 5, wantErr: ErrConflict, wantCalls: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls, notified := 0, 0
			err := withConflictRetry(context.Background(), tc.max,
				func(int) { notified++ },
				func(n int) (bool, error) {
					calls++
					if n != calls {
						t.Fatalf("attempt number %d out of sequence", n)
					}
					if calls <= tc.conflicts {
						return true, nil
					}
					return false, tc.final
				},
			)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if calls != tc.wantCalls {
				t.Fatalf("expected %d calls, got %d", tc.wantCalls, calls)
			}
			if notified > calls {
				t.Fatalf("notified %d times for %d calls", notified, calls)
			}
		})
	}

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := withConflictRetry(ctx, 4, nil, func(int) (bool, error) {
			calls++
			return true, nil
		})
		if !errors.Is(err, context.Canceled) || calls != 1 {
			t.Fatalf("expected context.Canceled after one call, got %v (%d calls)", err, calls)
		}
	})
}
