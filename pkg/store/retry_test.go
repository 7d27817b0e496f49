package store

import (
	"context"
	stderrors "errors"
	"testing"
	"time"
)

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	base := stderrors.New("boom")
	err := Retryable(base)
	if !IsRetryable(err) {
		t.Error("IsRetryable = false")
	}
	if !stderrors.Is(err, base) {
		t.Error("Retryable should unwrap to the cause")
	}
	if IsRetryable(base) {
		t.Error("plain error reported as retryable")
	}
}

func TestBackoffRetry(t *testing.T) {
	fast := Backoff{Attempts: 3, Delay: time.Millisecond}
	boom := stderrors.New("boom")

	tests := []struct {
		name     string
		failures int
		err      error
		wantErr  bool
		calls    int
	}{
		{"success first try", 0, nil, false, 1},
		{"retryable then success", 2, Retryable(boom), false, 3},
		{"retryable exhausted", 5, Retryable(boom), true, 3},
		{"permanent", 5, boom, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fast.Retry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.calls {
				t.Errorf("calls = %d, want %d", calls, tt.calls)
			}
			if err != nil && IsRetryable(err) {
				t.Error("exhausted error should be unwrapped")
			}
		})
	}
}

func TestBackoffRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := Backoff{Attempts: 3, Delay: time.Hour}
	err := b.Retry(ctx, func() error { return Retryable(stderrors.New("down")) })
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
