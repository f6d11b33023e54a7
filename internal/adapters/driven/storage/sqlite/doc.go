// Package sqlite provides the SQLite-backed unit store and job history.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. One database connection serves:
//
//   - UnitStore: legal units with their embeddings, keyed by (collection, law number)
//   - JobStore: the ingestion run history
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files;
// applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.phapdien/data/units.db
//
// # Nearest-neighbour search
//
// Embeddings are stored as little-endian float32 blobs and QueryNearest scores
// every row of the collection in Go. That is adequate for a statute corpus of
// a few thousand articles.
package sqlite
