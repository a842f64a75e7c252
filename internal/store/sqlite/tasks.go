package sqlite

import (
	"context"
	"fmt"

	"github.com/partydeck/partydeck-server/internal/domain"
)

const taskColumns = `id, description, is_active, created_at, updated_at`

func scanTask(scanner interface{ Scan(dest ...any) error }) (*domain.Task, error) {
	var (
		t         domain.Task
		isActive  int
		createdAt string
		updatedAt string
	)
	err := scanner.Scan(&t.ID, &t.Description, &isActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.IsActive = isActive == 1

	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) queryTasks(ctx context.Context, query string) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// ListTasks returns every task, newest first.
func (s *Store) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id DESC`)
}

// ListActiveTasks returns the active tasks, oldest first.
func (s *Store) ListActiveTasks(ctx context.Context) ([]domain.Task, error) {
	return s.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE is_active = 1 ORDER BY id ASC`)
}

// GetTask returns a task by id, or store.ErrNotFound.
func (s *Store) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// RandomTask picks one active task uniformly, or returns store.ErrNotFound.
func (s *Store) RandomTask(ctx context.Context) (*domain.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE is_active = 1 ORDER BY RANDOM() LIMIT 1`))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// CreateTask inserts a task and fills in its ID and timestamps.
func (s *Store) CreateTask(ctx context.Context, t *domain.Task) error {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (description, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		t.Description, boolToInt(t.IsActive), formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}
	t.CreatedAt = now.UTC()
	t.UpdatedAt = now.UTC()
	return nil
}

// UpdateTask writes only the fields set in the patch.
func (s *Store) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) error {
	q, err := s.queries(domain.CategoryTask)
	if err != nil {
		return err
	}

	var set setClause
	if patch.Description != nil {
		set.add("description", *patch.Description)
	}
	if patch.IsActive != nil {
		set.add("is_active", boolToInt(*patch.IsActive))
	}
	return s.execUpdate(ctx, q, id, &set)
}
