// Package cache holds the process-wide in-memory response cache used by the
// static file handler. Each entry captures the exact headers and body that
// were sent to the client, keyed by an optional mount prefix plus the request
// path. Entries never expire on their own; they live until a key is deleted
// or the store is cleared, so invalidation is always an explicit operation of
// the caller (admin endpoint, file change notification, tests).
package cache
