package sqlite

import (
	"context"
	"fmt"
	"time"
)

// RecordLoginAttempt appends an audit row for one login try.
func (s *Store) RecordLoginAttempt(ctx context.Context, ip, username string, success bool, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO login_attempts (ip_address, username, success, created_at)
		VALUES (?, ?, ?, ?)`,
		ip, nullIfEmpty(username), boolToInt(success), formatTime(at))
	if err != nil {
		return fmt.Errorf("record login attempt: %w", err)
	}
	return nil
}

// CountFailedLoginAttempts counts failures from ip since the given time.
func (s *Store) CountFailedLoginAttempts(ctx context.Context, ip string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM login_attempts
		WHERE ip_address = ? AND success = 0 AND created_at > ?`,
		ip, formatTime(since)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count failed logins: %w", err)
	}
	return n, nil
}

// PurgeLoginAttempts deletes attempts older than the given time.
func (s *Store) PurgeLoginAttempts(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM login_attempts WHERE created_at < ?`, formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("purge login attempts: %w", err)
	}
	return res.RowsAffected()
}
