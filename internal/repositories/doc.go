// Package repositories provides SQLite-backed persistence for baseline
// snapshots. The schema lives in internal/shared/sql and is applied through
// shared.RunMigrations.
package repositories
