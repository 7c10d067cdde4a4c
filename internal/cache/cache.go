// Package cache gives reads through the API client the same discipline the
// web front-end got from its request library: responses are cached by
// request key, concurrent identical requests collapse into one upstream
// call, and a filter change simply produces a different key.
package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 30 * time.Second

type entry struct {
	value     any
	expiresAt time.Time
}

type Store struct {
	ttl   time.Duration
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry

	now func() time.Time
}

func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Key builds the canonical cache key for an endpoint and its query
// parameters. Parameter order never matters.
func Key(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(endpoint)
	for _, k := range keys {
		sb.WriteByte('?')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	return sb.String()
}

// GetOrFetch returns the cached value for key, or runs fetch exactly once
// no matter how many callers ask concurrently. Errors are never cached.
func (s *Store) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && s.now().Before(e.expiresAt) {
		return e.value, nil
	}

	value, err, _ := s.group.Do(key, func() (any, error) {
		// Re-check: another caller may have filled the entry while this
		// one waited on the flight group.
		s.mu.RLock()
		e, ok := s.entries[key]
		s.mu.RUnlock()
		if ok && s.now().Before(e.expiresAt) {
			return e.value, nil
		}

		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.entries[key] = entry{value: v, expiresAt: s.now().Add(s.ttl)}
		s.mu.Unlock()
		return v, nil
	})
	return value, err
}

// Invalidate drops every entry whose key starts with prefix. Mutations call
// this so the next read goes upstream.
func (s *Store) Invalidate(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
}

// Fetch is the typed front of GetOrFetch.
func Fetch[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error)) (T, error) {
	value, err := s.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}
