package api

import (
	"context"

	"github.com/partydeck/partydeck-server/internal/media/images"
	"github.com/partydeck/partydeck-server/internal/service"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services holds every service the HTTP handlers call.
type Services struct {
	Content *service.ContentService
	Catalog *service.CatalogService
	Presets *service.PresetService
	Auth    *service.AuthService
	Upload  *service.UploadService

	// Images is the directory uploads are served from.
	Images *images.Storage
	DB     Pinger
}
