package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, Redis, in-memory) owns its own schema
// strategy, so the substrate backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
