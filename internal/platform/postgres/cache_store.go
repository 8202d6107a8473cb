package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/studyquest/studyquest-api/internal/cache"
	"github.com/studyquest/studyquest-api/internal/domain"
)

// CacheStore implements cache.Store on a PostgreSQL database.
type CacheStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewCacheStore creates a PostgreSQL implementation of cache.Store. The
// database handle is initialized and owned by the caller. If logger is nil,
// a default logger is used.
func NewCacheStore(db *sql.DB, logger *slog.Logger) *CacheStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CacheStore{
		db:     db,
		logger: logger.With(slog.String("component", "cache_store")),
	}
}

var _ cache.Store = (*CacheStore)(nil)

// Upsert implements cache.Store. Writing over an existing key resets its
// hit count and timestamps: the entry is new content, not a continuation.
func (s *CacheStore) Upsert(ctx context.Context, entry *cache.Entry) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshal cache metadata: %w", err)
	}

	query := `
		INSERT INTO content_cache
			(id, cache_key, topic, content_type, content, metadata, hit_count, created_at, last_accessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (cache_key) DO UPDATE SET
			topic            = EXCLUDED.topic,
			content_type     = EXCLUDED.content_type,
			content          = EXCLUDED.content,
			metadata         = EXCLUDED.metadata,
			hit_count        = EXCLUDED.hit_count,
			created_at       = EXCLUDED.created_at,
			last_accessed_at = EXCLUDED.last_accessed_at
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		entry.Key,
		entry.Topic,
		entry.ContentType,
		[]byte(entry.Content),
		metadata,
		entry.HitCount,
		entry.CreatedAt,
		entry.LastAccessedAt,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to upsert cache entry",
			slog.String("cache_key", entry.Key),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: upsert: %v", cache.ErrStoreUnavailable, err)
	}
	return nil
}

// GetFresh implements cache.Store. The freshness gate, hit bump, and read
// are one statement, so a concurrent hit can neither be lost nor observe a
// stale entry.
func (s *CacheStore) GetFresh(
	ctx context.Context,
	key string,
	freshAfter time.Time,
) (*cache.Entry, error) {
	query := `
		UPDATE content_cache
		SET hit_count = hit_count + 1, last_accessed_at = NOW()
		WHERE cache_key = $1 AND created_at > $2
		RETURNING id, cache_key, topic, content_type, content, metadata,
		          hit_count, created_at, last_accessed_at
	`

	var (
		entry       cache.Entry
		content     []byte
		rawMetadata []byte
	)
	err := s.db.QueryRowContext(ctx, query, key, freshAfter).Scan(
		&entry.ID,
		&entry.Key,
		&entry.Topic,
		&entry.ContentType,
		&content,
		&rawMetadata,
		&entry.HitCount,
		&entry.CreatedAt,
		&entry.LastAccessedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cache.ErrEntryNotFound
		}
		s.logger.ErrorContext(ctx, "failed to read cache entry",
			slog.String("cache_key", key),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: lookup: %v", cache.ErrStoreUnavailable, err)
	}

	entry.Content = json.RawMessage(content)
	if len(rawMetadata) > 0 {
		if err := json.Unmarshal(rawMetadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal cache metadata: %w", err)
		}
	}
	return &entry, nil
}

// TrimTopic implements cache.Store.
func (s *CacheStore) TrimTopic(ctx context.Context, topic string, keep int) (int64, error) {
	query := `
		DELETE FROM content_cache
		WHERE topic = $1 AND cache_key NOT IN (
			SELECT cache_key FROM content_cache
			WHERE topic = $1
			ORDER BY last_accessed_at DESC, created_at DESC
			LIMIT $2
		)
	`
	result, err := s.db.ExecContext(ctx, query, topic, keep)
	if err != nil {
		return 0, fmt.Errorf("%w: trim topic: %v", cache.ErrStoreUnavailable, err)
	}
	return result.RowsAffected()
}

// DeleteTopic implements cache.Store.
func (s *CacheStore) DeleteTopic(ctx context.Context, topic string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM content_cache WHERE topic = $1`, topic)
	if err != nil {
		return 0, fmt.Errorf("%w: delete topic: %v", cache.ErrStoreUnavailable, err)
	}
	return result.RowsAffected()
}

// DeleteOlderThan implements cache.Store.
func (s *CacheStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM content_cache WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: delete older than: %v", cache.ErrStoreUnavailable, err)
	}
	return result.RowsAffected()
}

// Stats implements cache.Store.
func (s *CacheStore) Stats(ctx context.Context, topic string) (*cache.Stats, error) {
	query := `
		SELECT content_type, COUNT(*), COALESCE(SUM(hit_count), 0)
		FROM content_cache
		WHERE ($1 = '' OR topic = $1)
		GROUP BY content_type
	`
	rows, err := s.db.QueryContext(ctx, query, topic)
	if err != nil {
		return nil, fmt.Errorf("%w: stats: %v", cache.ErrStoreUnavailable, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close stats rows", slog.String("error", closeErr.Error()))
		}
	}()

	stats := &cache.Stats{ByType: make(map[domain.ContentType]cache.TypeStats)}
	for rows.Next() {
		var (
			contentType domain.ContentType
			count       int64
			hits        int64
		)
		if err := rows.Scan(&contentType, &count, &hits); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		stats.ByType[contentType] = cache.TypeStats{Count: count, Hits: hits}
		stats.TotalEntries += count
		stats.TotalHits += hits
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: stats: %v", cache.ErrStoreUnavailable, err)
	}

	if stats.TotalEntries > 0 {
		stats.AvgHitsPerEntry = float64(stats.TotalHits) / float64(stats.TotalEntries)
	}
	return stats, nil
}
