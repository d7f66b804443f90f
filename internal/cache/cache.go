package cache

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/mbecker/catchup/internal/domain"
)

// envelope wraps a cached value with its expiry for storage.
// The backend never interprets it; expiration lives entirely up here.
type envelope struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Store is a key-prefix-scoped, TTL-aware cache over a key-value backend.
// Get on an expired entry reports a miss but leaves the entry in place so
// GetStale can serve it as a last resort. Disabling the store turns Put into
// a no-op, makes every Get a miss, and drops this store's existing entries,
// so a later re-enable never resurrects pre-disable state.
//
// No multi-key atomicity: the backend offers single-key operations only, and
// nothing above this layer may assume otherwise.
type Store[T any] struct {
	backend domain.Backend
	prefix  string
	ttl     time.Duration
	enabled bool
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a cache store for one entity type under the given key prefix
func New[T any](backend domain.Backend, prefix string, ttl time.Duration, logger *slog.Logger) *Store[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[T]{
		backend: backend,
		prefix:  prefix,
		ttl:     ttl,
		enabled: true,
		now:     time.Now,
		logger:  logger,
	}
}

// Put stores value under key with the store's default TTL
func (s *Store[T]) Put(key string, value T) error {
	return s.PutTTL(key, value, s.ttl)
}

// PutTTL stores value under key with an explicit TTL.
// Always a full replacement of whatever was there before.
func (s *Store[T]) PutTTL(key string, value T, ttl time.Duration) error {
	if !s.enabled {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return &domain.CacheWriteError{Key: s.prefix + key, Err: err}
	}

	env := envelope{
		Value:     raw,
		ExpiresAt: s.now().Add(ttl),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return &domain.CacheWriteError{Key: s.prefix + key, Err: err}
	}

	if err := s.backend.Put(s.prefix+key, data); err != nil {
		return &domain.CacheWriteError{Key: s.prefix + key, Err: err}
	}
	return nil
}

// Get returns the unexpired value for key. Expired entries read as absent
// but are not deleted, so GetStale can still reach them.
func (s *Store[T]) Get(key string) (T, bool) {
	var zero T
	env, ok := s.load(key)
	if !ok {
		return zero, false
	}

	if s.now().After(env.ExpiresAt) {
		s.logger.Debug("cache entry expired", "key", s.prefix+key)
		return zero, false
	}

	var value T
	if err := json.Unmarshal(env.Value, &value); err != nil {
		s.logger.Warn("cache entry undecodable, dropping", "key", s.prefix+key, "error", err)
		s.backend.Delete(s.prefix + key)
		return zero, false
	}
	return value, true
}

// GetStale returns the value for key even if its TTL has passed.
// The second return reports presence, the third whether the entry is expired.
// Used by the cache-first path when the remote is down: stale beats empty.
func (s *Store[T]) GetStale(key string) (T, bool, bool) {
	var zero T
	env, ok := s.load(key)
	if !ok {
		return zero, false, false
	}

	var value T
	if err := json.Unmarshal(env.Value, &value); err != nil {
		return zero, false, false
	}
	return value, true, s.now().After(env.ExpiresAt)
}

// Contains reports whether key holds a fresh entry.
// Cheaper membership probe for prefetch planning.
func (s *Store[T]) Contains(key string) bool {
	env, ok := s.load(key)
	return ok && !s.now().After(env.ExpiresAt)
}

func (s *Store[T]) load(key string) (*envelope, bool) {
	if !s.enabled {
		return nil, false
	}

	data, ok := s.backend.Get(s.prefix + key)
	if !ok {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Warn("cache envelope undecodable, dropping", "key", s.prefix+key, "error", err)
		s.backend.Delete(s.prefix + key)
		return nil, false
	}
	return &env, true
}

// ForEach visits every fresh entry in this store. Expired or undecodable
// entries are skipped silently; this is an index walk, not a consistency
// check.
func (s *Store[T]) ForEach(fn func(key string, value T)) {
	if !s.enabled {
		return
	}
	s.backend.ForEachPrefix(s.prefix, func(key string, data []byte) error {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil
		}
		if s.now().After(env.ExpiresAt) {
			return nil
		}
		var value T
		if err := json.Unmarshal(env.Value, &value); err != nil {
			return nil
		}
		fn(strings.TrimPrefix(key, s.prefix), value)
		return nil
	})
}

// Delete removes key regardless of expiry
func (s *Store[T]) Delete(key string) {
	if !s.enabled {
		return
	}
	if err := s.backend.Delete(s.prefix + key); err != nil {
		s.logger.Warn("cache delete failed", "key", s.prefix+key, "error", err)
	}
}

// Clear removes every entry under this store's prefix
func (s *Store[T]) Clear() error {
	return s.backend.DeletePrefix(s.prefix)
}

// SetEnabled toggles the store. Disabling also clears stored entries.
func (s *Store[T]) SetEnabled(enabled bool) {
	if s.enabled && !enabled {
		if err := s.Clear(); err != nil {
			s.logger.Warn("cache clear on disable failed", "prefix", s.prefix, "error", err)
		}
	}
	s.enabled = enabled
}

// Enabled reports whether the store is active
func (s *Store[T]) Enabled() bool { return s.enabled }

// SetClock replaces the store's time source. Tests use this to step
// past TTLs without sleeping.
func (s *Store[T]) SetClock(now func() time.Time) {
	s.now = now
}
