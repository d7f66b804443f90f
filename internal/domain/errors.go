package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested entity does not exist remotely
	ErrNotFound = errors.New("entity not found")

	// ErrRemoteUnavailable indicates the content service is unreachable
	ErrRemoteUnavailable = errors.New("content service is unreachable")

	// ErrAuthFailed indicates the access token was rejected
	ErrAuthFailed = errors.New("access token is invalid")
)

// RemoteFetchError wraps a failure to reach or read from the content
// service. Surfaced as-is on the authoritative path; the cache-first path
// may recover from it by falling back to an expired cache entry.
type RemoteFetchError struct {
	Op  string // logical operation: "project", "episodes", "bundle"
	Err error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("remote fetch %s: %v", e.Op, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }

// NormalizationError reports a remote node that matched no known shape.
// Always recovered locally: the offending node is skipped and logged,
// sibling nodes in the same response keep processing.
type NormalizationError struct {
	Kind string // discriminator value, "" if missing entirely
	Err  error
}

func (e *NormalizationError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("normalize: %v", e.Err)
	}
	return fmt.Sprintf("normalize %q: %v", e.Kind, e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// CacheWriteError reports a persistence failure during a deferred write or
// prefetch write. Never propagated to the consumer; by the time these writes
// run the consumer already has its result.
type CacheWriteError struct {
	Key string
	Err error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("cache write %s: %v", e.Key, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }
