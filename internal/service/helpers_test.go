package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/partydeck/partydeck-server/internal/config"
	"github.com/partydeck/partydeck-server/internal/domain"
	domainerrors "github.com/partydeck/partydeck-server/internal/errors"
	"github.com/partydeck/partydeck-server/internal/store/sqlite"
	"github.com/partydeck/partydeck-server/internal/validation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		TokenTTL:             24 * time.Hour,
		MaxLoginAttempts:     5,
		LoginWindow:          15 * time.Minute,
		DefaultAdminUsername: "admin",
		DefaultAdminPassword: "admin123",
	}
}

// seedNamed inserts active rows named names into c and returns their ids.
func seedNamed(t *testing.T, s *sqlite.Store, c domain.Category, names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	for i, name := range names {
		item := &domain.CategoryItem{Name: name, SortOrder: i, IsActive: true}
		require.NoError(t, s.CreateCategoryItem(context.Background(), c, item))
		ids = append(ids, item.ID)
	}
	return ids
}

func seedPose(t *testing.T, s *sqlite.Store, name string, active bool) int64 {
	t.Helper()
	p := &domain.Pose{Name: name, IsActive: active}
	require.NoError(t, s.CreatePose(context.Background(), p))
	return p.ID
}

func seedTask(t *testing.T, s *sqlite.Store, description string, active bool) int64 {
	t.Helper()
	task := &domain.Task{Description: description, IsActive: active}
	require.NoError(t, s.CreateTask(context.Background(), task))
	return task.ID
}

// seedAllPools gives every category at least one active row.
func seedAllPools(t *testing.T, s *sqlite.Store) {
	t.Helper()
	for _, c := range domain.NamedCategories() {
		seedNamed(t, s, c, c.String()+"-1", c.String()+"-2")
	}
	seedPose(t, s, "传教士", true)
	seedTask(t, s, "喝一杯", true)
}

// requireDomainError asserts err is a domain error with the given code and message.
func requireDomainError(t *testing.T, err error, code domainerrors.Code, message string) *domainerrors.Error {
	t.Helper()
	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, code, de.Code)
	if message != "" {
		require.Equal(t, message, de.Message)
	}
	return de
}

func newValidator() *validation.Validator {
	return validation.New()
}
