package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	domainerrors "github.com/partydeck/partydeck-server/internal/errors"
	"github.com/partydeck/partydeck-server/internal/media/images"
	"github.com/partydeck/partydeck-server/internal/metrics"
)

// ImagesDir is the directory segment uploaded images are stored and served under.
const ImagesDir = "images"

// allowedImageTypes maps sniffed MIME types to the stored file extension.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload messages.
const (
	MsgNoFile          = "No file uploaded"
	msgInvalidFileType = "Invalid file type. Allowed: image/jpeg, image/png, image/gif, image/webp"
)

// UploadService stores uploaded pose images.
type UploadService struct {
	storage *images.Storage
	maxSize int64
	logger  *slog.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(storage *images.Storage, maxSize int64, logger *slog.Logger) *UploadService {
	return &UploadService{
		storage: storage,
		maxSize: maxSize,
		logger:  logger,
	}
}

// UploadResult describes a stored image.
type UploadResult struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	BlurHash    string `json:"blurhash,omitempty"`
}

// TooLargeMessage is the error text for an upload over maxSize bytes.
func TooLargeMessage(maxSize int64) string {
	return fmt.Sprintf("File too large. Max size is %dMB", maxSize/(1024*1024))
}

// MaxSize is the largest accepted upload in bytes.
func (s *UploadService) MaxSize() int64 {
	return s.maxSize
}

// Upload validates and stores an image. The type is sniffed from the
// content; the client's file name and declared type are ignored.
func (s *UploadService) Upload(ctx context.Context, r io.Reader) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, domainerrors.BadRequest(MsgNoFile)
	}
	if int64(len(data)) > s.maxSize {
		return nil, domainerrors.BadRequest(TooLargeMessage(s.maxSize))
	}

	contentType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, domainerrors.BadRequest(msgInvalidFileType)
	}

	name := uuid.NewString() + ext
	if err := s.storage.Save(name, data); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	// A missing placeholder is cosmetic; keep the upload.
	preview, err := images.Inspect(data)
	if err != nil {
		s.logger.Warn("image preview failed", "file", name, "error", err)
	}

	metrics.UploadsTotal.WithLabelValues(contentType).Inc()
	s.logger.Info("image uploaded", "file", name, "content_type", contentType, "size", len(data))

	rel := path.Join(ImagesDir, name)
	return &UploadResult{
		Path:        rel,
		URL:         "/" + rel,
		ContentType: contentType,
		Size:        int64(len(data)),
		Width:       preview.Width,
		Height:      preview.Height,
		BlurHash:    preview.BlurHash,
	}, nil
}
