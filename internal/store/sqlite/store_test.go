package sqlite

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	tables := []string{
		"dice_actions", "dice_parts", "zishi_poses", "zishi_places", "zishi_times", "tasks",
		"story_male_roles", "story_female_roles", "story_relationships",
		"story_initiatives", "story_behaviors", "story_actions",
		"presets", "preset_rounds", "admins", "admin_sessions", "login_attempts",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpen_PragmasOnEveryConnection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Hold every pooled connection at once so each one is checked.
	conns := make([]*sql.Conn, 0, 4)
	for i := 0; i < 4; i++ {
		c, err := s.db.Conn(ctx)
		if err != nil {
			t.Fatalf("conn #%d: %v", i+1, err)
		}
		defer c.Close()
		conns = append(conns, c)
	}

	for i, c := range conns {
		var fk, busy int
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn #%d foreign_keys: %v", i+1, err)
		}
		if err := c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy); err != nil {
			t.Fatalf("conn #%d busy_timeout: %v", i+1, err)
		}
		if fk != 1 || busy != 5000 {
			t.Errorf("conn #%d: foreign_keys=%d busy_timeout=%d, want 1 and 5000", i+1, fk, busy)
		}
	}
}

func TestOpen_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for i := 0; i < 2; i++ {
		s, err := Open(dbPath, logger)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestFormatTime_SortsAsText(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	later := base.Add(500 * time.Millisecond)

	if !(formatTime(base) < formatTime(later)) {
		t.Errorf("%s should sort before %s", formatTime(base), formatTime(later))
	}

	got, err := parseTime(formatTime(later))
	if err != nil {
		t.Fatalf("parseTime: %v", err)
	}
	if !got.Equal(later) {
		t.Errorf("round trip: got %v, want %v", got, later)
	}
}
