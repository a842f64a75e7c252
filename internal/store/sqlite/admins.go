package sqlite

import (
	"context"
	"fmt"

	"github.com/partydeck/partydeck-server/internal/domain"
	"github.com/partydeck/partydeck-server/internal/store"
)

const adminColumns = `id, username, password_hash, created_at, updated_at`

func scanAdmin(scanner interface{ Scan(dest ...any) error }) (*domain.Admin, error) {
	var (
		a         domain.Admin
		createdAt string
		updatedAt string
	)
	err := scanner.Scan(&a.ID, &a.Username, &a.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAdmin inserts an admin.
// Returns store.ErrAlreadyExists if the username is taken.
func (s *Store) CreateAdmin(ctx context.Context, a *domain.Admin) error {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		a.Username, a.PasswordHash, formatTime(now), formatTime(now))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return fmt.Errorf("insert admin: %w", err)
	}

	a.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}
	a.CreatedAt = now.UTC()
	a.UpdatedAt = now.UTC()
	return nil
}

// GetAdmin returns an admin by id, or store.ErrNotFound.
func (s *Store) GetAdmin(ctx context.Context, id int64) (*domain.Admin, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// GetAdminByUsername looks up an admin by exact, case-sensitive username.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE username = ?`, username))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// CountAdmins returns the number of admin accounts.
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

// UpdateAdminPassword replaces an admin's password hash.
func (s *Store) UpdateAdminPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE admins SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, formatTime(s.now()), id)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
