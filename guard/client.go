package guard

import "context"

// Params carries the request parameters for a single API call. Keys are the
// wire-level parameter names of the remote method.
type Params map[string]any

// Client performs calls against the remote API. Implementations own transport
// concerns (HTTP, serialization, authentication); the guard layers resilience
// on top. MakeRequest returns the raw response body on success. Transport
// failures should be reported as *UpstreamError so the retry classifier can
// recognize them.
type Client interface {
	MakeRequest(ctx context.Context, method string, params Params) ([]byte, error)
	HealthCheck(ctx context.Context) error
}

// ClientFunc adapts a function to the Client interface. Its HealthCheck
// always succeeds.
type ClientFunc func(ctx context.Context, method string, params Params) ([]byte, error)

func (f ClientFunc) MakeRequest(ctx context.Context, method string, params Params) ([]byte, error) {
	return f(ctx, method, params)
}

func (f ClientFunc) HealthCheck(ctx context.Context) error {
	return nil
}
