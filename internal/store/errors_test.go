package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/partydeck/partydeck-server/internal/store"
)

func TestError_Error(t *testing.T) {
	assert.Equal(t, "resource not found", store.ErrNotFound.Error())

	wrapped := store.ErrAlreadyExists.WithCause(errors.New("UNIQUE constraint failed: presets.share_code"))
	assert.Contains(t, wrapped.Error(), "resource already exists")
	assert.Contains(t, wrapped.Error(), "presets.share_code")
}

func TestError_HTTPCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, store.ErrNotFound.HTTPCode())
	assert.Equal(t, http.StatusConflict, store.ErrAlreadyExists.HTTPCode())
}

func TestError_Is(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := store.ErrNotFound.WithCause(cause)

	assert.True(t, errors.Is(wrapped, store.ErrNotFound))
	assert.True(t, errors.Is(wrapped, cause))
	assert.False(t, errors.Is(wrapped, store.ErrAlreadyExists))
	assert.True(t, errors.Is(fmt.Errorf("get preset 7: %w", store.ErrNotFound), store.ErrNotFound))
}
