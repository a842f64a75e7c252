package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/partydeck/partydeck-server/internal/config"
	"github.com/partydeck/partydeck-server/internal/logger"
	"github.com/partydeck/partydeck-server/internal/service"
	"github.com/partydeck/partydeck-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := cfg.Storage.DatabasePath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// Bootstrap records what startup had to create.
type Bootstrap struct {
	CreatedAdmin bool
}

// ProvideBootstrap makes sure an admin account exists.
func ProvideBootstrap(i do.Injector) (*Bootstrap, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	authService := do.MustInvoke[*service.AuthService](i)

	created, err := authService.EnsureDefaultAdmin(context.Background())
	if err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	if created {
		log.WithField("username", cfg.Auth.DefaultAdminUsername).
			Warn("Default admin created, change its password")
	}

	return &Bootstrap{CreatedAdmin: created}, nil
}
