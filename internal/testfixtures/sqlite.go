package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/outreach-scheduler/internal/persistence"
	"github.com/example/outreach-scheduler/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Rooms      persistence.RoomRepository
	Prompts    persistence.PromptRepository
	Outreaches persistence.OutreachRepository
	Responses  persistence.ResponseRepository
}

// NewSQLiteHarness constructs a SQLiteHarness over a temporary file that is
// migrated automatically and closed via the provided testing.TB's cleanup.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "outreach.db")

	pool, err := sqlite.Open("file:" + path + "?_pragma=journal_mode(wal)")
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	tb.Cleanup(func() {
		if err := pool.Close(); err != nil {
			tb.Errorf("failed to close storage: %v", err)
		}
	})

	if err := pool.Migrate(context.Background()); err != nil {
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	return &SQLiteHarness{
		Rooms:      sqlite.NewRoomRepository(pool),
		Prompts:    sqlite.NewPromptRepository(pool),
		Outreaches: sqlite.NewOutreachRepository(pool),
		Responses:  sqlite.NewResponseRepository(pool),
	}
}
