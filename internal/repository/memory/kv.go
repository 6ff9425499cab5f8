// Package memory provides a process-local key-value substrate.
package memory

import (
	"context"
	"sync"

	"github.com/msomdec/novacart/internal/domain"
)

// Substrate keeps every scope in one map guarded by a mutex.
type Substrate struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

// NewSubstrate creates an empty in-memory substrate.
func NewSubstrate() *Substrate {
	return &Substrate{entries: make(map[string]map[string]string)}
}

// Scope returns the store for one scope.
func (s *Substrate) Scope(name string) domain.KeyValueStore {
	return &kvStore{parent: s, scope: name}
}

// Migrate is a no-op; the memory backend has no schema.
func (s *Substrate) Migrate(context.Context) error { return nil }

// Ping always succeeds.
func (s *Substrate) Ping(context.Context) error { return nil }

// Close drops all entries.
func (s *Substrate) Close() error {
	s.mu.Lock()
	s.entries = make(map[string]map[string]string)
	s.mu.Unlock()
	return nil
}

type kvStore struct {
	parent *Substrate
	scope  string
}

func (s *kvStore) Get(_ context.Context, key string) (string, error) {
	s.parent.mu.RLock()
	defer s.parent.mu.RUnlock()

	v, ok := s.parent.entries[s.scope][key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (s *kvStore) Set(_ context.Context, key, value string) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()

	m, ok := s.parent.entries[s.scope]
	if !ok {
		m = make(map[string]string)
		s.parent.entries[s.scope] = m
	}
	m[key] = value
	return nil
}

func (s *kvStore) Remove(_ context.Context, key string) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()

	delete(s.parent.entries[s.scope], key)
	return nil
}
