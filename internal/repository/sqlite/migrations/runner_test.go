package migrations_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/msomdec/novacart/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// A single connection keeps the in-memory database alive across calls.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun_EmbeddedMigrations(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db, migrations.FS); err != nil {
		t.Fatalf("first migration run: %v", err)
	}

	// Verify the kv_entries table exists by inserting a row.
	_, err := db.ExecContext(ctx,
		"INSERT INTO kv_entries (scope, key, value) VALUES (?, ?, ?)",
		"accounts", "novacart_users", "[]",
	)
	if err != nil {
		t.Fatalf("insert into kv_entries: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count == 0 {
		t.Fatal("expected at least one migration recorded in schema_migrations")
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db, migrations.FS); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db, migrations.FS); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}

	pending, err := migrations.Pending(ctx, db, migrations.FS)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending migrations, got %v", pending)
	}
}

func TestRun_OrderAndSkipsNonSQL(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("INSERT INTO things (name) VALUES ('second');")},
		"001_first.sql":  {Data: []byte("CREATE TABLE things (name TEXT NOT NULL);")},
		"README.md":      {Data: []byte("not a migration")},
	}

	pending, err := migrations.Pending(ctx, db, fsys)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 2 || pending[0] != "001_first.sql" || pending[1] != "002_second.sql" {
		t.Fatalf("unexpected pending list: %v", pending)
	}

	if err := migrations.Run(ctx, db, fsys); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var name string
	if err := db.QueryRowContext(ctx, "SELECT name FROM things").Scan(&name); err != nil {
		t.Fatalf("query things: %v", err)
	}
	if name != "second" {
		t.Fatalf("expected row from second migration, got %q", name)
	}
}

func TestRun_FailedMigrationRollsBack(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		"001_broken.sql": {Data: []byte("CREATE TABLE ok (id INTEGER); THIS IS NOT SQL;")},
	}

	if err := migrations.Run(ctx, db, fsys); err == nil {
		t.Fatal("expected error from broken migration")
	}

	pending, err := migrations.Pending(ctx, db, fsys)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected broken migration to remain pending, got %v", pending)
	}
}
