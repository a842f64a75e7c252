package api

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partydeck/partydeck-server/internal/service"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: 80, B: uint8(y * 16), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// uploadRequest builds a multipart request; an empty field name sends no file.
func uploadRequest(t *testing.T, auth, field string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, "photo.bin")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "nothing here"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if auth != "" {
		name, value, _ := strings.Cut(auth, ": ")
		req.Header.Set(name, value)
	}
	return req
}

func TestUpload_StoresAndServesImage(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.login(t)
	data := testPNG(t)

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, uploadRequest(t, auth, "file", data))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	envelope := decodeEnvelope[service.UploadResult](t, rec)
	assert.True(t, envelope.Success)
	assert.Regexp(t, `^images/[0-9a-f-]{36}\.png$`, envelope.Data.Path)
	assert.Equal(t, "image/png", envelope.Data.ContentType)
	assert.Equal(t, int64(len(data)), envelope.Data.Size)
	assert.Equal(t, 16, envelope.Data.Width)
	assert.NotEmpty(t, envelope.Data.BlurHash)

	rec = httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, envelope.Data.URL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	served, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, data, served)
}

func TestUpload_Errors(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.login(t)

	tests := []struct {
		name    string
		auth    string
		field   string
		data    []byte
		status  int
		message string
	}{
		{"no token", "", "file", testPNG(t), http.StatusUnauthorized, "Invalid or expired token"},
		{"no file", auth, "", nil, http.StatusBadRequest, "No file uploaded"},
		{"wrong field", auth, "image", testPNG(t), http.StatusBadRequest, "No file uploaded"},
		{"not an image", auth, "file", []byte("%PDF-1.4 nope"), http.StatusBadRequest,
			"Invalid file type. Allowed: image/jpeg, image/png, image/gif, image/webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ts.ServeHTTP(rec, uploadRequest(t, tt.auth, tt.field, tt.data))

			assert.Equal(t, tt.status, rec.Code)
			envelope := decodeEnvelope[any](t, rec)
			assert.False(t, envelope.Success)
			assert.Equal(t, tt.message, envelope.Message)
		})
	}
}

func TestImages_NoDirectoryListing(t *testing.T) {
	ts := setupTestServer(t)

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
