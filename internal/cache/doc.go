// Package cache implements the content-addressed cache for generated study
// content. It derives deterministic keys from the semantic inputs of a
// generation request, applies a soft freshness window on reads and a hard
// retention limit on sweeps, and bounds per-topic growth by evicting the
// least-recently-accessed entries.
//
// The storage backend is abstracted behind the Store interface; a Postgres
// implementation lives in internal/platform/postgres and an in-memory
// implementation in this package serves tests and single-process deployments.
package cache
