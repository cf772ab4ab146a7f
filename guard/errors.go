package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/vkguard/vkguard/resilience"
	"github.com/vkguard/vkguard/validate"
)

// UpstreamError reports a transport-level failure from the remote API. It is
// transient from the guard's point of view and eligible for retry.
type UpstreamError struct {
	Method  string // API method that failed
	Code    int    // remote error code, 0 when unknown
	Message string
	Err     error // underlying transport error, may be nil
}

func (e *UpstreamError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("guard: upstream %s failed with code %d: %s", e.Method, e.Code, e.Message)
	}
	return fmt.Sprintf("guard: upstream %s failed: %s", e.Method, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Retryable reports whether a failed call may be attempted again. Validation
// failures and circuit-open rejections are never retried: both mean the call
// should not be attempted at all. Transient conditions (timeouts, rate
// limiting, upstream transport failures, saturation) are retryable.
// Unclassified errors are not retried.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		return false
	}
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, resilience.ErrTimeout) ||
		errors.Is(err, resilience.ErrRateLimited) ||
		errors.Is(err, resilience.ErrBulkheadFull) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var uerr *UpstreamError
	return errors.As(err, &uerr)
}

// Error kinds recorded in audit logs.
const (
	KindValidation  = "validation"
	KindCircuitOpen = "circuit_open"
	KindRateLimited = "rate_limited"
	KindTimeout     = "timeout"
	KindBulkhead    = "bulkhead_full"
	KindUpstream    = "upstream_unavailable"
	KindCanceled    = "canceled"
	KindUnknown     = "unknown"
)

// Kind classifies an error into the audit log taxonomy.
func Kind(err error) string {
	if err == nil {
		return ""
	}

	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		return KindValidation
	}

	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return KindCircuitOpen
	case errors.Is(err, resilience.ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, resilience.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, resilience.ErrBulkheadFull):
		return KindBulkhead
	case errors.Is(err, context.Canceled):
		return KindCanceled
	}

	var uerr *UpstreamError
	if errors.As(err, &uerr) {
		return KindUpstream
	}
	return KindUnknown
}
