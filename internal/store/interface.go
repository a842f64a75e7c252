// Package store defines the persistence interface for the PartyDeck server.
package store

import (
	"context"
	"time"

	"github.com/partydeck/partydeck-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Named categories (dice, places, times, story elements)
	ListCategoryItems(ctx context.Context, c domain.Category) ([]domain.CategoryItem, error)
	ListActiveCategoryItems(ctx context.Context, c domain.Category) ([]domain.CategoryItem, error)
	GetCategoryItem(ctx context.Context, c domain.Category, id int64) (*domain.CategoryItem, error)
	CreateCategoryItem(ctx context.Context, c domain.Category, item *domain.CategoryItem) error
	UpdateCategoryItem(ctx context.Context, c domain.Category, id int64, patch domain.CategoryPatch) error
	RandomCategoryItem(ctx context.Context, c domain.Category) (*domain.CategoryItem, error)

	// Any category
	DeleteCategoryItem(ctx context.Context, c domain.Category, id int64) error
	ClearCategory(ctx context.Context, c domain.Category) error
	ActiveIDs(ctx context.Context, c domain.Category) ([]int64, error)
	CountCategory(ctx context.Context, c domain.Category) (int, error)

	// Poses
	ListPoses(ctx context.Context) ([]domain.Pose, error)
	ListActivePoses(ctx context.Context) ([]domain.Pose, error)
	GetPose(ctx context.Context, id int64) (*domain.Pose, error)
	CreatePose(ctx context.Context, p *domain.Pose) error
	UpdatePose(ctx context.Context, id int64, patch domain.PosePatch) error

	// Tasks
	ListTasks(ctx context.Context) ([]domain.Task, error)
	ListActiveTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	RandomTask(ctx context.Context) (*domain.Task, error)
	CreateTask(ctx context.Context, t *domain.Task) error
	UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) error

	// Presets
	CreatePreset(ctx context.Context, p *domain.Preset, rounds []domain.RoundSpec) error
	GetPreset(ctx context.Context, id int64) (*domain.Preset, error)
	GetPresetByShareCode(ctx context.Context, code string) (*domain.Preset, error)
	ShareCodeExists(ctx context.Context, code string) (bool, error)
	ListPresets(ctx context.Context) ([]domain.Preset, error)
	UpdatePreset(ctx context.Context, id int64, patch domain.PresetPatch) error
	SaveRounds(ctx context.Context, presetID int64, rounds []domain.RoundSpec) error
	DeletePreset(ctx context.Context, id int64) error
	ListRounds(ctx context.Context, presetID int64) ([]domain.RoundSpec, error)
	ResolvedRounds(ctx context.Context, presetID int64) ([]domain.ResolvedRound, error)

	// Admins
	CreateAdmin(ctx context.Context, a *domain.Admin) error
	GetAdmin(ctx context.Context, id int64) (*domain.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (*domain.Admin, error)
	CountAdmins(ctx context.Context) (int, error)
	UpdateAdminPassword(ctx context.Context, id int64, passwordHash string) error

	// Admin sessions
	CreateSession(ctx context.Context, session *domain.AdminSession) error
	GetValidSession(ctx context.Context, tokenHash string, now time.Time) (*domain.AdminSession, *domain.Admin, error)
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
	DeleteAdminSessions(ctx context.Context, adminID int64, keepTokenHash string) (int64, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// Login attempts
	RecordLoginAttempt(ctx context.Context, ip, username string, success bool, at time.Time) error
	CountFailedLoginAttempts(ctx context.Context, ip string, since time.Time) (int, error)
	PurgeLoginAttempts(ctx context.Context, before time.Time) (int64, error)
}
