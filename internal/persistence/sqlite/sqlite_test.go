package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func setupPool(t *testing.T) *ConnectionPool {
	t.Helper()

	path := filepath.Join(t.TempDir(), "outreach.db")
	pool, err := Open("file:" + path + "?_pragma=journal_mode(wal)")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return pool
}

func TestMigrate_Idempotent(t *testing.T) {
	pool := setupPool(t)

	// A second run must find nothing pending.
	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	var count int
	err := pool.DB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	if err != nil {
		t.Fatalf("failed to count applied migrations: %v", err)
	}
	if count != len(migrationSteps) {
		t.Errorf("expected %d applied migrations, got %d", len(migrationSteps), count)
	}
}

func TestMigrate_CreatesTables(t *testing.T) {
	pool := setupPool(t)

	for _, table := range []string{"rooms", "prompts", "outreaches", "responses"} {
		var name string
		err := pool.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("expected table %q to exist: %v", table, err)
		}
	}
}
