package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyquest/studyquest-api/internal/domain"
)

// Default retention policy.
const (
	// DefaultSoftTTL is the freshness window: entries older than this are
	// treated as misses on read even though they still exist.
	DefaultSoftTTL = 24 * time.Hour

	// DefaultHardTTL is the absolute retention limit: entries older than
	// this are eligible for physical deletion by SweepExpired.
	DefaultHardTTL = 7 * 24 * time.Hour

	// DefaultMaxPerTopic caps how many live entries a single topic may
	// hold before the least-recently-accessed are evicted.
	DefaultMaxPerTopic = 5
)

// ContentCache layers key derivation, freshness gating, and per-topic
// eviction policy on top of a Store.
type ContentCache struct {
	store       Store
	softTTL     time.Duration
	hardTTL     time.Duration
	maxPerTopic int
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a ContentCache.
type Option func(*ContentCache)

// WithSoftTTL overrides the freshness window.
func WithSoftTTL(d time.Duration) Option {
	return func(c *ContentCache) { c.softTTL = d }
}

// WithHardTTL overrides the absolute retention limit.
func WithHardTTL(d time.Duration) Option {
	return func(c *ContentCache) { c.hardTTL = d }
}

// WithMaxPerTopic overrides the per-topic entry cap.
func WithMaxPerTopic(n int) Option {
	return func(c *ContentCache) { c.maxPerTopic = n }
}

// WithClock overrides the time source. Used by tests to control TTL
// boundaries deterministically.
func WithClock(now func() time.Time) Option {
	return func(c *ContentCache) { c.now = now }
}

// New creates a ContentCache over the given store. If logger is nil the
// default logger is used.
func New(store Store, logger *slog.Logger, opts ...Option) *ContentCache {
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &ContentCache{
		store:       store,
		softTTL:     DefaultSoftTTL,
		hardTTL:     DefaultHardTTL,
		maxPerTopic: DefaultMaxPerTopic,
		logger:      logger.With(slog.String("component", "content_cache")),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the live entry for (topic, contentType, params), or
// ErrEntryNotFound when no entry exists or the entry has aged past the
// freshness window. A hit bumps the entry's hit count and last-accessed
// time atomically with the read.
func (c *ContentCache) Get(
	ctx context.Context,
	topic string,
	contentType domain.ContentType,
	params domain.Params,
) (*Entry, error) {
	key := Key(topic, contentType, params)
	freshAfter := c.now().Add(-c.softTTL)

	entry, err := c.store.GetFresh(ctx, key, freshAfter)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "cache hit",
		slog.String("cache_key", key),
		slog.String("content_type", string(contentType)),
		slog.Int64("hit_count", entry.HitCount))
	return entry, nil
}

// Put upserts content for (topic, contentType, params) with fresh
// timestamps and a zero hit count, then trims the topic back to the
// per-topic cap, evicting the least-recently-accessed entries first.
func (c *ContentCache) Put(
	ctx context.Context,
	topic string,
	contentType domain.ContentType,
	params domain.Params,
	content json.RawMessage,
	metadata map[string]string,
) error {
	now := c.now().UTC()
	normalized := domain.NormalizeTopic(topic)

	entry := &Entry{
		ID:             uuid.New(),
		Key:            Key(topic, contentType, params),
		Topic:          normalized,
		ContentType:    contentType,
		Content:        content,
		Metadata:       metadata,
		HitCount:       0,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	if err := c.store.Upsert(ctx, entry); err != nil {
		return err
	}

	evicted, err := c.store.TrimTopic(ctx, normalized, c.maxPerTopic)
	if err != nil {
		// The write itself succeeded; a failed trim only delays eviction
		// until the next write or sweep.
		c.logger.WarnContext(ctx, "per-topic trim failed",
			slog.String("topic", normalized),
			slog.String("error", err.Error()))
		return nil
	}
	if evicted > 0 {
		c.logger.InfoContext(ctx, "evicted cache entries over per-topic cap",
			slog.String("topic", normalized),
			slog.Int64("evicted", evicted))
	}
	return nil
}

// InvalidateTopic deletes every entry for the topic, returning how many
// were removed.
func (c *ContentCache) InvalidateTopic(ctx context.Context, topic string) (int64, error) {
	return c.store.DeleteTopic(ctx, domain.NormalizeTopic(topic))
}

// SweepExpired physically deletes entries older than the hard retention
// limit. It is independent of the freshness gate: stale-but-retained
// entries survive until they cross the hard limit.
func (c *ContentCache) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.hardTTL)
	deleted, err := c.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		c.logger.InfoContext(ctx, "swept expired cache entries",
			slog.Int64("deleted", deleted),
			slog.Time("cutoff", cutoff))
	}
	return deleted, nil
}

// Stats aggregates usage counters, optionally scoped to one topic.
func (c *ContentCache) Stats(ctx context.Context, topic string) (*Stats, error) {
	if topic != "" {
		topic = domain.NormalizeTopic(topic)
	}
	return c.store.Stats(ctx, topic)
}
