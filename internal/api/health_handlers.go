package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

// Component states, best to worst.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

var statusRank = map[string]int{statusHealthy: 0, statusDegraded: 1, statusUnhealthy: 2}

// The overall status is the worst component status. A broken upload
// directory only degrades the server; game content is still served.
func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.probe("database", statusUnhealthy, "database unreachable", func() error {
			if s.services.DB == nil {
				return errNotConfigured
			}
			return s.services.DB.Ping(ctx)
		}),
		"uploads": s.probe("uploads", statusDegraded, "upload directory unavailable", func() error {
			if s.services.Images == nil {
				return errNotConfigured
			}
			return s.services.Images.Check()
		}),
	}

	overall := statusHealthy
	for _, c := range components {
		if statusRank[c.Status] > statusRank[overall] {
			overall = c.Status
		}
	}
	return &HealthOutput{Body: HealthResponse{Status: overall, Components: components}}, nil
}

var errNotConfigured = errors.New("not configured")

// probe times check. A failure reports failStatus with a fixed message;
// the cause goes to the log only.
func (s *Server) probe(name, failStatus, failMessage string, check func() error) ComponentHealth {
	start := time.Now()
	err := check()
	latency := time.Since(start).String()

	switch {
	case errors.Is(err, errNotConfigured):
		return ComponentHealth{Status: statusDegraded, Message: name + " not configured"}
	case err != nil:
		s.logger.Error("Health check failed", "component", name, "error", err)
		return ComponentHealth{Status: failStatus, Latency: latency, Message: failMessage}
	default:
		return ComponentHealth{Status: statusHealthy, Latency: latency}
	}
}
