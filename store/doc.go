// Package store provides Repository implementations for the guard layer.
//
// Memory keeps cached results and audit logs in process memory with lazy TTL
// expiry and bounded log retention; it backs tests and single-process
// deployments. Redis persists the same data in a Redis instance so multiple
// processes share one cache and one audit trail.
package store
