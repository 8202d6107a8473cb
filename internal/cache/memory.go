package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/studyquest/studyquest-api/internal/domain"
)

// MemoryStore is a mutex-guarded in-process Store. It backs tests and
// single-process deployments that have no Postgres available.
//
// All operations hold one lock, so the per-topic cap cannot overshoot here;
// the bounded-overshoot allowance in the Store contract exists for backends
// whose trim runs as a separate statement from the write.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*Entry

	// now is the time source for hit bumps; tests may replace it.
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// SetClock replaces the store's time source. Test hook.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

var _ Store = (*MemoryStore)(nil)

// Upsert implements Store.
func (s *MemoryStore) Upsert(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *entry
	s.entries[entry.Key] = &stored
	return nil
}

// GetFresh implements Store. The hit bump happens under the same lock as
// the read, so concurrent hits never lose a count.
func (s *MemoryStore) GetFresh(_ context.Context, key string, freshAfter time.Time) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !entry.CreatedAt.After(freshAfter) {
		return nil, ErrEntryNotFound
	}

	entry.HitCount++
	entry.LastAccessedAt = s.now().UTC()

	copied := *entry
	return &copied, nil
}

// TrimTopic implements Store.
func (s *MemoryStore) TrimTopic(_ context.Context, topic string, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var topical []*Entry
	for _, entry := range s.entries {
		if entry.Topic == topic {
			topical = append(topical, entry)
		}
	}
	if len(topical) <= keep {
		return 0, nil
	}

	// Most recently accessed first; creation time breaks ties.
	sort.Slice(topical, func(i, j int) bool {
		if !topical[i].LastAccessedAt.Equal(topical[j].LastAccessedAt) {
			return topical[i].LastAccessedAt.After(topical[j].LastAccessedAt)
		}
		return topical[i].CreatedAt.After(topical[j].CreatedAt)
	})

	var deleted int64
	for _, entry := range topical[keep:] {
		delete(s.entries, entry.Key)
		deleted++
	}
	return deleted, nil
}

// DeleteTopic implements Store.
func (s *MemoryStore) DeleteTopic(_ context.Context, topic string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key, entry := range s.entries {
		if entry.Topic == topic {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// DeleteOlderThan implements Store.
func (s *MemoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key, entry := range s.entries {
		if entry.CreatedAt.Before(cutoff) {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// Stats implements Store.
func (s *MemoryStore) Stats(_ context.Context, topic string) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &Stats{ByType: make(map[domain.ContentType]TypeStats)}
	for _, entry := range s.entries {
		if topic != "" && entry.Topic != topic {
			continue
		}
		stats.TotalEntries++
		stats.TotalHits += entry.HitCount

		ts := stats.ByType[entry.ContentType]
		ts.Count++
		ts.Hits += entry.HitCount
		stats.ByType[entry.ContentType] = ts
	}
	if stats.TotalEntries > 0 {
		stats.AvgHitsPerEntry = float64(stats.TotalHits) / float64(stats.TotalEntries)
	}
	return stats, nil
}
