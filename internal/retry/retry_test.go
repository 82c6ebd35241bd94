package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flaky returns an op failing the first n calls.
func flaky(n int) func() error {
	calls := 0
	return func() error {
		calls++
		if calls <= n {
			return errors.New("not yet")
		}
		return nil
	}
}

func TestPolicy_Do(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		failures int
		wantErr  bool
	}{
		{
			name:     "first attempt succeeds",
			policy:   Policy{Attempts: 1},
			failures: 0,
		},
		{
			name:     "succeeds within budget",
			policy:   Policy{Attempts: 5},
			failures: 4,
		},
		{
			name:     "budget exhausted",
			policy:   Policy{Attempts: 5},
			failures: 5,
			wantErr:  true,
		},
		{
			name:    "zero attempts rejected",
			policy:  Policy{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Do(context.Background(), flaky(tt.failures))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPolicy_Do_ExhaustionWrapsLastError(t *testing.T) {
	sentinel := errors.New("node missing")

	err := Policy{Attempts: 3}.Do(context.Background(), func() error { return sentinel })

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
}

func TestPolicy_Do_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Policy{Attempts: 10}.Do(ctx, func() error { return errors.New("not yet") })

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
