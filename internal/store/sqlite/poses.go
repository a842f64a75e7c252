package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/partydeck/partydeck-server/internal/domain"
)

// poseColumns must match the scan order in scanPose.
const poseColumns = `id, name, image_path, description, sort_order, is_active, created_at, updated_at`

func scanPose(scanner interface{ Scan(dest ...any) error }) (*domain.Pose, error) {
	var (
		p           domain.Pose
		imagePath   sql.NullString
		description sql.NullString
		isActive    int
		createdAt   string
		updatedAt   string
	)
	err := scanner.Scan(&p.ID, &p.Name, &imagePath, &description, &p.SortOrder, &isActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.ImagePath = stringPtr(imagePath)
	p.Description = stringPtr(description)
	p.IsActive = isActive == 1

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) queryPoses(ctx context.Context, query string) ([]domain.Pose, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	poses := []domain.Pose{}
	for rows.Next() {
		p, err := scanPose(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pose: %w", err)
		}
		poses = append(poses, *p)
	}
	return poses, rows.Err()
}

// ListPoses returns every pose ordered by sort_order, id.
func (s *Store) ListPoses(ctx context.Context) ([]domain.Pose, error) {
	return s.queryPoses(ctx, `SELECT `+poseColumns+` FROM zishi_poses ORDER BY sort_order, id`)
}

// ListActivePoses returns the active poses.
func (s *Store) ListActivePoses(ctx context.Context) ([]domain.Pose, error) {
	return s.queryPoses(ctx, `SELECT `+poseColumns+` FROM zishi_poses WHERE is_active = 1 ORDER BY sort_order, id`)
}

// GetPose returns a pose by id, or store.ErrNotFound.
func (s *Store) GetPose(ctx context.Context, id int64) (*domain.Pose, error) {
	p, err := scanPose(s.db.QueryRowContext(ctx, `SELECT `+poseColumns+` FROM zishi_poses WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// CreatePose inserts a pose and fills in its ID and timestamps.
func (s *Store) CreatePose(ctx context.Context, p *domain.Pose) error {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO zishi_poses (name, image_path, description, sort_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name,
		nullableString(p.ImagePath),
		nullableString(p.Description),
		p.SortOrder,
		boolToInt(p.IsActive),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("insert pose: %w", err)
	}

	p.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}
	p.CreatedAt = now.UTC()
	p.UpdatedAt = now.UTC()
	return nil
}

// UpdatePose writes only the fields set in the patch.
func (s *Store) UpdatePose(ctx context.Context, id int64, patch domain.PosePatch) error {
	q, err := s.queries(domain.CategoryPose)
	if err != nil {
		return err
	}

	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.ImagePath != nil {
		set.add("image_path", nullIfEmpty(*patch.ImagePath))
	}
	if patch.Description != nil {
		set.add("description", nullIfEmpty(*patch.Description))
	}
	if patch.SortOrder != nil {
		set.add("sort_order", *patch.SortOrder)
	}
	if patch.IsActive != nil {
		set.add("is_active", boolToInt(*patch.IsActive))
	}
	return s.execUpdate(ctx, q, id, &set)
}

// nullIfEmpty stores "" as NULL, so clearing an optional field from a form works.
func nullIfEmpty(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
