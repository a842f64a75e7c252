// Package di provides dependency injection configuration for the PartyDeck server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/partydeck/partydeck-server/internal/config"
	"github.com/partydeck/partydeck-server/internal/di/providers"
	"github.com/partydeck/partydeck-server/internal/logger"
	"github.com/partydeck/partydeck-server/internal/media/images"
	"github.com/partydeck/partydeck-server/internal/service"
	"github.com/partydeck/partydeck-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideImageStorage)

	// Business services
	do.Provide(injector, providers.ProvideContentService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvidePresetService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideUploadService)
	do.Provide(injector, providers.ProvideBootstrap)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*images.Storage](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.ContentService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.PresetService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.UploadService](injector)

	if _, err := do.Invoke[*providers.Bootstrap](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
