package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/partydeck/partydeck-server/internal/config"
	"github.com/partydeck/partydeck-server/internal/logger"
	"github.com/partydeck/partydeck-server/internal/media/images"
	"github.com/partydeck/partydeck-server/internal/service"
)

// ProvideImageStorage provides storage for uploaded pose images.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorageWithSubdir(cfg.Storage.UploadPath, service.ImagesDir)
	if err != nil {
		return nil, fmt.Errorf("image storage: %w", err)
	}

	log.Info("Image storage initialized", "dir", storage.Dir())

	return storage, nil
}
