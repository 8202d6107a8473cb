package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/studyquest/studyquest-api/internal/domain"
)

// Common store errors.
var (
	// ErrEntryNotFound is returned when no live entry exists for a key.
	// A stale entry (older than the freshness gate) reports the same way
	// as a missing one.
	ErrEntryNotFound = errors.New("cache entry not found")

	// ErrStoreUnavailable is returned when the storage backend cannot be
	// reached. Callers are expected to degrade to a cache miss rather
	// than fail the surrounding workflow.
	ErrStoreUnavailable = errors.New("cache store unavailable")
)

// Entry is one cached piece of generated content. Content is opaque to the
// cache; callers marshal and unmarshal their own payloads.
type Entry struct {
	ID             uuid.UUID          `json:"id"`
	Key            string             `json:"cache_key"`
	Topic          string             `json:"topic"`
	ContentType    domain.ContentType `json:"content_type"`
	Content        json.RawMessage    `json:"content"`
	Metadata       map[string]string  `json:"metadata"`
	HitCount       int64              `json:"hit_count"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
}

// TypeStats aggregates entry and hit counts for one content type.
type TypeStats struct {
	Count int64 `json:"count"`
	Hits  int64 `json:"hits"`
}

// Stats summarizes cache usage, optionally scoped to one topic.
type Stats struct {
	TotalEntries    int64                            `json:"total_entries"`
	TotalHits       int64                            `json:"total_hits"`
	AvgHitsPerEntry float64                          `json:"avg_hits_per_entry"`
	ByType          map[domain.ContentType]TypeStats `json:"by_type"`
}

// Store defines the storage backend contract for cached content. All topics
// passed to Store methods are already normalized by the cache layer.
//
// Implementations must keep the hit bump in GetFresh atomic with the read so
// concurrent hits on one key never lose a count. TrimTopic enforcement may
// briefly overshoot the cap under heavy concurrent writes; callers accept a
// bounded excess rather than paying for cross-operation locking.
type Store interface {
	// Upsert inserts the entry or replaces the entry with the same key.
	Upsert(ctx context.Context, entry *Entry) error

	// GetFresh returns the entry for key if it was created after the
	// freshAfter gate, bumping its hit count and last-accessed time as
	// part of the same operation. Returns ErrEntryNotFound for absent or
	// stale entries.
	GetFresh(ctx context.Context, key string, freshAfter time.Time) (*Entry, error)

	// TrimTopic deletes entries for the topic beyond the keep newest by
	// last-accessed time (ties broken by creation time), returning how
	// many were deleted.
	TrimTopic(ctx context.Context, topic string, keep int) (int64, error)

	// DeleteTopic removes every entry for the topic.
	DeleteTopic(ctx context.Context, topic string) (int64, error)

	// DeleteOlderThan removes entries created before the cutoff,
	// regardless of freshness, returning how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Stats aggregates usage counters. An empty topic means all topics.
	Stats(ctx context.Context, topic string) (*Stats, error)
}
