package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/partydeck/partydeck-server/internal/domain"
	"github.com/partydeck/partydeck-server/internal/store"
)

func createAdmin(t *testing.T, s *Store, username string) *domain.Admin {
	t.Helper()
	a := &domain.Admin{Username: username, PasswordHash: "$argon2id$fake"}
	if err := s.CreateAdmin(context.Background(), a); err != nil {
		t.Fatalf("CreateAdmin(%q): %v", username, err)
	}
	return a
}

func TestAdmins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := createAdmin(t, s, "admin")

	if err := s.CreateAdmin(ctx, &domain.Admin{Username: "admin", PasswordHash: "x"}); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate username: expected ErrAlreadyExists, got %v", err)
	}

	// Usernames are case-sensitive.
	createAdmin(t, s, "Admin")
	n, err := s.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("CountAdmins: %v", err)
	}
	if n != 2 {
		t.Errorf("count: got %d, want 2", n)
	}

	got, err := s.GetAdminByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetAdminByUsername: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("got admin %d, want %d", got.ID, a.ID)
	}

	if err := s.UpdateAdminPassword(ctx, a.ID, "$argon2id$new"); err != nil {
		t.Fatalf("UpdateAdminPassword: %v", err)
	}
	got, _ = s.GetAdmin(ctx, a.ID)
	if got.PasswordHash != "$argon2id$new" {
		t.Errorf("password hash not updated: %q", got.PasswordHash)
	}

	if err := s.UpdateAdminPassword(ctx, 999, "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetAdminByUsername(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessions_Expiry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := createAdmin(t, s, "admin")

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sess := &domain.AdminSession{
		AdminID:   a.ID,
		TokenHash: "hash-1",
		ExpiresAt: now.Add(24 * time.Hour),
		CreatedAt: now,
		IPAddress: "10.0.0.1",
	}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	gotSess, gotAdmin, err := s.GetValidSession(ctx, "hash-1", now.Add(23*time.Hour))
	if err != nil {
		t.Fatalf("GetValidSession: %v", err)
	}
	if gotSess.AdminID != a.ID || gotAdmin.Username != "admin" || gotSess.IPAddress != "10.0.0.1" {
		t.Errorf("unexpected session %+v admin %+v", gotSess, gotAdmin)
	}

	if _, _, err := s.GetValidSession(ctx, "hash-1", now.Add(25*time.Hour)); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expired session: expected ErrNotFound, got %v", err)
	}

	n, err := s.DeleteExpiredSessions(ctx, now.Add(25*time.Hour))
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}
}

func TestSessions_CreatedAtDefaultsToNow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := createAdmin(t, s, "admin")

	before := time.Now().UTC().Add(-time.Second)
	sess := &domain.AdminSession{AdminID: a.ID, TokenHash: "fresh", ExpiresAt: time.Now().Add(time.Hour)}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	var raw string
	if err := s.db.QueryRowContext(ctx, `SELECT created_at FROM admin_sessions WHERE id = ?`, sess.ID).Scan(&raw); err != nil {
		t.Fatalf("select created_at: %v", err)
	}
	created, err := parseTime(raw)
	if err != nil {
		t.Fatalf("parse created_at %q: %v", raw, err)
	}
	if created.Before(before) {
		t.Errorf("created_at = %s, want a current timestamp", raw)
	}
}

func TestSessions_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := createAdmin(t, s, "admin")
	now := time.Now()

	for _, h := range []string{"keep", "drop-1", "drop-2"} {
		if err := s.CreateSession(ctx, &domain.AdminSession{AdminID: a.ID, TokenHash: h, ExpiresAt: now.Add(time.Hour), CreatedAt: now}); err != nil {
			t.Fatalf("CreateSession(%s): %v", h, err)
		}
	}

	if err := s.CreateSession(ctx, &domain.AdminSession{AdminID: a.ID, TokenHash: "keep", ExpiresAt: now, CreatedAt: now}); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate token hash: expected ErrAlreadyExists, got %v", err)
	}

	if err := s.DeleteSessionByTokenHash(ctx, "drop-1"); err != nil {
		t.Fatalf("DeleteSessionByTokenHash: %v", err)
	}
	// Idempotent.
	if err := s.DeleteSessionByTokenHash(ctx, "drop-1"); err != nil {
		t.Fatalf("DeleteSessionByTokenHash again: %v", err)
	}

	n, err := s.DeleteAdminSessions(ctx, a.ID, "keep")
	if err != nil {
		t.Fatalf("DeleteAdminSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
	if _, _, err := s.GetValidSession(ctx, "keep", now); err != nil {
		t.Errorf("kept session should remain valid: %v", err)
	}
}

func TestLoginAttempts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	attempts := []struct {
		ip      string
		success bool
		at      time.Time
	}{
		{"1.1.1.1", false, now.Add(-20 * time.Minute)},
		{"1.1.1.1", false, now.Add(-10 * time.Minute)},
		{"1.1.1.1", false, now.Add(-1 * time.Minute)},
		{"1.1.1.1", true, now.Add(-30 * time.Second)},
		{"2.2.2.2", false, now.Add(-1 * time.Minute)},
	}
	for _, a := range attempts {
		if err := s.RecordLoginAttempt(ctx, a.ip, "admin", a.success, a.at); err != nil {
			t.Fatalf("RecordLoginAttempt: %v", err)
		}
	}

	n, err := s.CountFailedLoginAttempts(ctx, "1.1.1.1", now.Add(-15*time.Minute))
	if err != nil {
		t.Fatalf("CountFailedLoginAttempts: %v", err)
	}
	if n != 2 {
		t.Errorf("failed attempts in window: got %d, want 2", n)
	}

	purged, err := s.PurgeLoginAttempts(ctx, now.Add(-15*time.Minute))
	if err != nil {
		t.Fatalf("PurgeLoginAttempts: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged %d, want 1", purged)
	}
}
