// Package postgres implements the cache.Store interface on PostgreSQL,
// accessed through database/sql with the pgx driver. Hit accounting is a
// single UPDATE ... RETURNING statement so concurrent reads of one key can
// never lose a count; per-topic trimming runs as its own statement after a
// write, which permits a brief, bounded overshoot of the cap under heavy
// concurrent writes.
package postgres
