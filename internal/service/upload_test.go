package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/partydeck/partydeck-server/internal/errors"
	"github.com/partydeck/partydeck-server/internal/media/images"
)

func newUploadService(t *testing.T, maxSize int64) (*UploadService, *images.Storage) {
	t.Helper()
	storage, err := images.NewStorageWithSubdir(t.TempDir(), ImagesDir)
	require.NoError(t, err)
	return NewUploadService(storage, maxSize, testLogger()), storage
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := range 32 {
		for x := range 32 {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUpload_StoresPNG(t *testing.T) {
	svc, storage := newUploadService(t, 5*1024*1024)
	data := pngBytes(t)

	res, err := svc.Upload(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	assert.Regexp(t, `^images/[0-9a-f-]{36}\.png$`, res.Path)
	assert.Equal(t, "/"+res.Path, res.URL)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, int64(len(data)), res.Size)
	assert.NotEmpty(t, res.BlurHash)

	stored, err := os.ReadFile(filepath.Join(storage.Dir(), strings.TrimPrefix(res.Path, "images/")))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestUpload_Rejects(t *testing.T) {
	svc, _ := newUploadService(t, 5*1024*1024)

	tests := []struct {
		name    string
		data    []byte
		message string
	}{
		{"empty", nil, "No file uploaded"},
		{"too large", bytes.Repeat([]byte{0xff}, 5*1024*1024+1), "File too large. Max size is 5MB"},
		{"not an image", []byte("%PDF-1.4 fake pdf"), "Invalid file type. Allowed: image/jpeg, image/png, image/gif, image/webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), bytes.NewReader(tt.data))
			requireDomainError(t, err, domainerrors.CodeBadRequest, tt.message)
		})
	}
}
