package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rfarias/geocapture/internal/core/usecases"
)

func TestRetryPolicy_SucceedsEarly(t *testing.T) {
	calls := 0
	p := usecases.RetryPolicy{MaxAttempts: 3}
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}

func TestRetryPolicy_ExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("boom")
	p := usecases.RetryPolicy{MaxAttempts: 3}
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryPolicy_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	p := usecases.RetryPolicy{}
	_ = p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryPolicy_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	p := usecases.RetryPolicy{MaxAttempts: 3}
	err := p.Do(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}
