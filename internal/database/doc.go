// Package database owns the embedded SQLite connection and the schema.
//
// The connection is opened once at startup and shared by every repository;
// NewDatabase runs the idempotent migration and returns an error if the
// schema cannot be created, which aborts startup.
//
// Per-entity operations live in sub-packages:
//
//   - database/users:   user rows (registration lookups, cascade delete)
//   - database/recipes: recipe summaries, details, publish, delete
package database
