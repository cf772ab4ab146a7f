// Package cache provides read-through caching of VK API responses.
//
// Keys come from templates with named placeholders ("user:{id}") rendered
// against call arguments. The Decorator consults the cache before invoking an
// operation, stores only successful responses, and can optionally coalesce
// concurrent misses for the same key into one upstream call.
package cache
