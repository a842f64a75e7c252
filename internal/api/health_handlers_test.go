package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("database is locked") }

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/health")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[HealthResponse](t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
	assert.NotEmpty(t, envelope.Data.Components["database"].Latency)
	assert.Equal(t, "healthy", envelope.Data.Components["uploads"].Status)
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	ts := setupTestServer(t)
	ts.services.DB = failingPinger{}

	resp := ts.api.Get("/api/health")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[HealthResponse](t, resp)
	assert.Equal(t, "unhealthy", envelope.Data.Status)
	assert.Equal(t, "database unreachable", envelope.Data.Components["database"].Message)
	assert.NotContains(t, resp.Body.String(), "locked")
}

func TestHealthCheck_UploadsMissing(t *testing.T) {
	ts := setupTestServer(t)
	require.NoError(t, os.RemoveAll(ts.services.Images.Dir()))

	resp := ts.api.Get("/api/health")
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[HealthResponse](t, resp)
	assert.Equal(t, "degraded", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
	assert.Equal(t, "upload directory unavailable", envelope.Data.Components["uploads"].Message)
}

func TestHealthCheck_NotConfigured(t *testing.T) {
	ts := setupTestServer(t)
	ts.services.DB = nil

	envelope := decodeEnvelope[HealthResponse](t, ts.api.Get("/api/health"))
	assert.Equal(t, "degraded", envelope.Data.Status)
	assert.Equal(t, "database not configured", envelope.Data.Components["database"].Message)
}
