package guard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/vkguard/vkguard/resilience"
	"github.com/vkguard/vkguard/validate"
)

func TestRetryable_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"validation", &validate.ValidationError{Param: "count", Reason: "too big"}, false},
		{"wrapped validation", fmt.Errorf("call: %w", &validate.ValidationError{Param: "id", Reason: "zero"}), false},
		{"circuit open", resilience.ErrCircuitOpen, false},
		{"canceled", context.Canceled, false},
		{"timeout", resilience.ErrTimeout, true},
		{"rate limited", resilience.ErrRateLimited, true},
		{"rate limit error", &resilience.RateLimitError{}, true},
		{"bulkhead full", resilience.ErrBulkheadFull, true},
		{"deadline", context.DeadlineExceeded, true},
		{"upstream", &UpstreamError{Method: "users.get", Message: "connection reset"}, true},
		{"wrapped upstream", fmt.Errorf("call: %w", &UpstreamError{Method: "wall.get", Message: "eof"}), true},
		{"unknown", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestKind_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &validate.ValidationError{Param: "count", Reason: "too big"}, KindValidation},
		{"circuit open", resilience.ErrCircuitOpen, KindCircuitOpen},
		{"rate limited", resilience.ErrRateLimited, KindRateLimited},
		{"rate limit error", &resilience.RateLimitError{}, KindRateLimited},
		{"timeout", resilience.ErrTimeout, KindTimeout},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"bulkhead", resilience.ErrBulkheadFull, KindBulkhead},
		{"canceled", context.Canceled, KindCanceled},
		{"upstream", &UpstreamError{Method: "users.get", Message: "reset"}, KindUpstream},
		{"unknown", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestUpstreamError_Message(t *testing.T) {
	err := &UpstreamError{Method: "users.get", Code: 6, Message: "too many requests"}
	want := "guard: upstream users.get failed with code 6: too many requests"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &UpstreamError{Method: "users.get", Message: "connection reset"}
	want = "guard: upstream users.get failed: connection reset"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUpstreamError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &UpstreamError{Method: "users.get", Message: "transport", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the transport cause")
	}
}
