package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/partydeck/partydeck-server/internal/errors"
	"github.com/partydeck/partydeck-server/internal/store"
)

func marshalTransformed(t *testing.T, status string, v any) map[string]any {
	t.Helper()
	out, err := EnvelopeTransformer(nil, status, v)
	require.NoError(t, err)
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func TestEnvelopeTransformer(t *testing.T) {
	tests := []struct {
		name   string
		status string
		input  any
		want   map[string]any
	}{
		{
			name:   "plain payload",
			status: "200",
			input:  map[string]string{"key": "value"},
			want:   map[string]any{"success": true, "message": "Success", "data": map[string]any{"key": "value"}},
		},
		{
			name:   "message only",
			status: "200",
			input:  Message("Logout successful"),
			want:   map[string]any{"success": true, "message": "Logout successful", "data": nil},
		},
		{
			name:   "payload with message",
			status: "200",
			input:  withMessage("Login successful", map[string]int{"n": 1}),
			want:   map[string]any{"success": true, "message": "Login successful", "data": map[string]any{"n": float64(1)}},
		},
		{
			name:   "api error with details",
			status: "422",
			input:  &APIError{Code: "VALIDATION", Message: "Validation failed", Details: map[string]string{"name": "Name is required"}},
			want:   map[string]any{"success": false, "message": "Validation failed", "errors": map[string]any{"name": "Name is required"}},
		},
		{
			name:   "domain error",
			status: "404",
			input:  domainerrors.NotFound("Task not found"),
			want:   map[string]any{"success": false, "message": "Task not found"},
		},
		{
			name:   "plain error",
			status: "400",
			input:  errors.New("invalid input"),
			want:   map[string]any{"success": false, "message": "invalid input"},
		},
		{
			name:   "internal error is masked",
			status: "500",
			input:  errors.New("sql: database is closed"),
			want:   map[string]any{"success": false, "message": "Internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, marshalTransformed(t, tt.status, tt.input))
		})
	}
}

func TestEnvelopeTransformer_PassesEnvelopesThrough(t *testing.T) {
	env := APIEnvelope{Success: true, Message: "already wrapped"}
	out, err := EnvelopeTransformer(nil, "200", env)
	require.NoError(t, err)
	assert.Equal(t, env, out)
}

func TestNewError_Mapping(t *testing.T) {
	RegisterErrorHandler(nil)

	t.Run("domain error keeps its status", func(t *testing.T) {
		err := huma.NewError(http.StatusInternalServerError, "boom", domainerrors.Conflict("分享码已被使用"))
		assert.Equal(t, http.StatusConflict, err.GetStatus())
		assert.Equal(t, "分享码已被使用", err.Error())
	})

	t.Run("store error uses its code", func(t *testing.T) {
		err := huma.NewError(http.StatusInternalServerError, "boom", store.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, err.GetStatus())
	})

	t.Run("schema failures become field errors", func(t *testing.T) {
		err := huma.NewError(http.StatusUnprocessableEntity, "validation failed",
			&huma.ErrorDetail{Message: "expected required property name to be present", Location: "body.name"},
			&huma.ErrorDetail{Message: "expected number >= 1", Location: "path.id"},
		)
		apiErr, ok := err.(*APIError)
		require.True(t, ok)
		assert.Equal(t, "Validation failed", apiErr.Message)
		assert.Equal(t, map[string]string{
			"name": "expected required property name to be present",
			"id":   "expected number >= 1",
		}, apiErr.Details)
	})

	t.Run("validation without field details omits errors", func(t *testing.T) {
		err := huma.NewError(http.StatusUnprocessableEntity, "validation failed")
		assert.Nil(t, err.(*APIError).Details)
	})

	t.Run("server errors are masked", func(t *testing.T) {
		err := huma.NewError(http.StatusInternalServerError, "pq: secret detail")
		assert.Equal(t, "Internal server error", err.Error())
	})

	t.Run("other statuses keep the message", func(t *testing.T) {
		err := huma.NewError(http.StatusMethodNotAllowed, "method not allowed")
		assert.Equal(t, http.StatusMethodNotAllowed, err.GetStatus())
		assert.Equal(t, "BAD_REQUEST", err.(*APIError).Code)
	})
}

func TestStatusToCode(t *testing.T) {
	tests := map[int]string{
		http.StatusUnauthorized:        "UNAUTHORIZED",
		http.StatusForbidden:           "FORBIDDEN",
		http.StatusNotFound:            "NOT_FOUND",
		http.StatusConflict:            "CONFLICT",
		http.StatusUnprocessableEntity: "VALIDATION",
		http.StatusTooManyRequests:     "TOO_MANY_REQUESTS",
		http.StatusBadGateway:          "INTERNAL",
		http.StatusBadRequest:          "BAD_REQUEST",
	}
	for status, want := range tests {
		assert.Equal(t, want, statusToCode(status), status)
	}
}
