package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DependentsCacheStore caches serialized dependents-advisory responses per
// (team, flag). It backs only the read-only inspector endpoint: write-path
// validation always re-derives the graph from storage, so staleness here
// can never admit a bad mutation. Every flag write invalidates the whole
// team to keep the advisory close to current.
type DependentsCacheStore interface {
	Get(ctx context.Context, teamID, flagID uint) ([]byte, bool, error)
	Set(ctx context.Context, teamID, flagID uint, value []byte, ttl time.Duration) error
	InvalidateTeam(ctx context.Context, teamID uint) error
}

type NoopDependentsCacheStore struct{}

func NewNoopDependentsCacheStore() *NoopDependentsCacheStore {
	return &NoopDependentsCacheStore{}
}

func (s *NoopDependentsCacheStore) Get(context.Context, uint, uint) ([]byte, bool, error) {
	return nil, false, nil
}

func (s *NoopDependentsCacheStore) Set(context.Context, uint, uint, []byte, time.Duration) error {
	return nil
}

func (s *NoopDependentsCacheStore) InvalidateTeam(context.Context, uint) error {
	return nil
}

type dependentsCacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

type InMemoryDependentsCacheStore struct {
	mu      sync.RWMutex
	entries map[uint]map[uint]dependentsCacheEntry
}

func NewInMemoryDependentsCacheStore() *InMemoryDependentsCacheStore {
	return &InMemoryDependentsCacheStore{entries: map[uint]map[uint]dependentsCacheEntry{}}
}

func (s *InMemoryDependentsCacheStore) Get(_ context.Context, teamID, flagID uint) ([]byte, bool, error) {
	now := time.Now().UTC()
	s.mu.RLock()
	entry, ok := s.entries[teamID][flagID]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if now.After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries[teamID], flagID)
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), entry.payload...), true, nil
}

func (s *InMemoryDependentsCacheStore) Set(_ context.Context, teamID, flagID uint, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	if s.entries[teamID] == nil {
		s.entries[teamID] = map[uint]dependentsCacheEntry{}
	}
	s.entries[teamID][flagID] = dependentsCacheEntry{
		payload:   append([]byte(nil), value...),
		expiresAt: time.Now().UTC().Add(ttl),
	}
	s.mu.Unlock()
	return nil
}

func (s *InMemoryDependentsCacheStore) InvalidateTeam(_ context.Context, teamID uint) error {
	s.mu.Lock()
	delete(s.entries, teamID)
	s.mu.Unlock()
	return nil
}

func dependentsCacheKey(prefix string, teamID, flagID uint) string {
	return fmt.Sprintf("%s:data:t:%d:f:%d", prefix, teamID, flagID)
}
