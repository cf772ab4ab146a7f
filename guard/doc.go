// Package guard composes the resilience primitives into call pipelines for a
// remote API client.
//
// A Pipeline wraps one API operation in a fixed stack of guards, outermost to
// innermost: audit logging, retry, validation, read-through cache, timeout,
// bulkhead, rate limit, circuit breaker. A Service owns the shared state
// behind those stages: one circuit breaker and one rate limiter per operation
// name, a Repository for cached results and the audit trail, and the
// telemetry sink every outcome is mirrored to.
//
//	svc, err := guard.NewService(client, repo, guard.ServiceConfig{Name: "vk"})
//	if err != nil {
//		return err
//	}
//	svc.Operation("users.get", svc.Cached("user:{user_ids}", 5*time.Minute))
//
//	body, err := svc.Do(ctx, guard.UsersGetRequest{UserIDs: []int64{42}})
//
// Errors keep their identity through every stage: callers can classify any
// failure with Kind or test it with Retryable, and sentinel checks like
// errors.Is(err, resilience.ErrCircuitOpen) work on pipeline results.
package guard
