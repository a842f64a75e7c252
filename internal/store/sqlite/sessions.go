package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/partydeck/partydeck-server/internal/domain"
	"github.com/partydeck/partydeck-server/internal/store"
)

// CreateSession inserts a bearer session and fills in its ID. A zero
// CreatedAt is stamped with the current time.
func (s *Store) CreateSession(ctx context.Context, session *domain.AdminSession) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (admin_id, token_hash, expires_at, created_at, ip_address)
		VALUES (?, ?, ?, ?, ?)`,
		session.AdminID,
		session.TokenHash,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
		nullIfEmpty(session.IPAddress),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return fmt.Errorf("insert session: %w", err)
	}

	session.ID, err = res.LastInsertId()
	return err
}

// GetValidSession returns the session with the given token hash that has not
// expired at now, joined to its admin. Returns store.ErrNotFound otherwise.
func (s *Store) GetValidSession(ctx context.Context, tokenHash string, now time.Time) (*domain.AdminSession, *domain.Admin, error) {
	var (
		sess      domain.AdminSession
		admin     domain.Admin
		expiresAt string
		createdAt string
		ipAddress sql.NullString
		aCreated  string
		aUpdated  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.admin_id, s.token_hash, s.expires_at, s.created_at, s.ip_address,
			a.id, a.username, a.password_hash, a.created_at, a.updated_at
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.token_hash = ? AND s.expires_at > ?`,
		tokenHash, formatTime(now),
	).Scan(
		&sess.ID, &sess.AdminID, &sess.TokenHash, &expiresAt, &createdAt, &ipAddress,
		&admin.ID, &admin.Username, &admin.PasswordHash, &aCreated, &aUpdated,
	)
	if err != nil {
		return nil, nil, notFound(err)
	}

	if sess.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, nil, err
	}
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, nil, err
	}
	if ipAddress.Valid {
		sess.IPAddress = ipAddress.String
	}
	if admin.CreatedAt, err = parseTime(aCreated); err != nil {
		return nil, nil, err
	}
	if admin.UpdatedAt, err = parseTime(aUpdated); err != nil {
		return nil, nil, err
	}
	return &sess, &admin, nil
}

// DeleteSessionByTokenHash removes a session. A missing session is not an error.
func (s *Store) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE token_hash = ?`, tokenHash); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteAdminSessions removes every session of an admin except the one with keepTokenHash.
func (s *Store) DeleteAdminSessions(ctx context.Context, adminID int64, keepTokenHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE admin_id = ? AND token_hash != ?`, adminID, keepTokenHash)
	if err != nil {
		return 0, fmt.Errorf("delete admin sessions: %w", err)
	}
	return res.RowsAffected()
}

// DeleteExpiredSessions removes every session that expired at or before now
// and returns how many were removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= ?`, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
