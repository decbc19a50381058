// Package sqlite provides the SQLite-backed operator journal.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The journal keeps every action the operator requested and
// every split outcome pushed by the backend, so history survives restarts.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.ayahrev/data/journal.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite's WAL mode
// locking.
package sqlite
