package api

import (
	"errors"
	"net/http"

	"github.com/partydeck/partydeck-server/internal/http/response"
	"github.com/partydeck/partydeck-server/internal/service"
)

// multipartOverhead leaves room for boundaries and part headers around the file.
const multipartOverhead = 1 << 20

// handleUpload stores the multipart "file" field as an image.
// Oversized bodies are cut off by MaxBytesReader; the upload service decides
// what is too large for a single file.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := s.requireAdmin(ctx); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	maxSize := s.services.Upload.MaxSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, service.TooLargeMessage(maxSize), s.logger)
			return
		}
		response.BadRequest(w, service.MsgNoFile, s.logger)
		return
	}
	defer file.Close()

	result, err := s.services.Upload.Upload(ctx, file)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
