package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghuser/cafestock/pkg/logger"
)

var fastRetry = RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

func TestRetryPolicy_Run(t *testing.T) {
	errTransient := errors.New("transient")
	tests := []struct {
		name      string
		failFirst int // fn fails this many times before succeeding; -1 always fails
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", 0, false, 1},
		{"succeeds on last attempt", 2, false, 3},
		{"exhausts attempts", -1, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fastRetry.run(context.Background(), logger.NewNop(), func() error {
				calls++
				if tt.failFirst < 0 || calls <= tt.failFirst {
					return errTransient
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errTransient) {
				t.Errorf("err = %v, expected it to wrap the handler error", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryPolicy_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	slow := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: time.Second}
	err := slow.run(ctx, logger.NewNop(), func() error {
		calls++
		return errors.New("error")
	})
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
	if calls != 1 {
		t.Errorf("expected 1 call before giving up, got %d", calls)
	}
}
