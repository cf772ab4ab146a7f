package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewTimeout_Defaults(t *testing.T) {
	to := NewTimeout(TimeoutConfig{})

	if to.config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", to.config.Timeout)
	}
}

func TestTimeout_CompletesInTime(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Second})

	err := to.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v, want nil", err)
	}
}

func TestTimeout_PropagatesError(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Second})

	opErr := errors.New("boom")
	err := to.Execute(context.Background(), func(ctx context.Context) error {
		return opErr
	})

	if err != opErr {
		t.Errorf("Execute() error = %v, want opErr", err)
	}
}

func TestTimeout_Expires(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: 50 * time.Millisecond})

	start := time.Now()
	err := to.Execute(context.Background(), func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() error = %v, want ErrTimeout", err)
	}
	if elapsed > 200*time.Millisecond {
		t.Errorf("Execute() returned after %v, want ~50ms", elapsed)
	}
}

func TestTimeout_OperationCancelled(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: 30 * time.Millisecond})

	var cancelled atomic.Bool
	_ = to.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})

	// The in-flight operation observes cancellation; nothing is left running.
	deadline := time.Now().Add(time.Second)
	for !cancelled.Load() {
		if time.Now().After(deadline) {
			t.Fatal("wrapped operation never observed cancellation")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTimeout_CallerCancellation(t *testing.T) {
	to := NewTimeout(TimeoutConfig{Timeout: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := to.Execute(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestExecuteWithTimeout(t *testing.T) {
	err := ExecuteWithTimeout(context.Background(), time.Second, func(ctx context.Context) error {
		return nil
	})

	if err != nil {
		t.Errorf("ExecuteWithTimeout() error = %v, want nil", err)
	}
}
