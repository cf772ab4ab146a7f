// Package observe provides observability primitives for guarded API calls.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wire the observer into the guard pipeline
// or wrap raw client calls with Middleware.
package observe
