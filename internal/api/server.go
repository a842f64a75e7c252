// Package api provides the HTTP API server and handlers for PartyDeck.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/partydeck/partydeck-server/internal/config"
	"github.com/partydeck/partydeck-server/internal/http/response"
	"github.com/partydeck/partydeck-server/internal/metrics"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

const msgEndpointNotFound = "API endpoint not found"

var bearerSecurity = []map[string][]string{{"bearer": {}}}

// Server holds dependencies for HTTP handlers.
type Server struct {
	cfg          *config.Config
	services     *Services
	router       *chi.Mux
	api          huma.API
	loginLimiter *RateLimiter
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, services *Services, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		services: services,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	if cfg.Auth.LoginRatePerMinute > 0 {
		s.loginLimiter = NewRateLimiter(cfg.Auth.LoginRatePerMinute, time.Minute, cfg.Auth.LoginRateBurst)
	}

	s.setupMiddleware()
	s.setupAPI()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.loginLimiter != nil {
		s.loginLimiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(recoverer(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	if s.cfg.Metrics.Enabled {
		s.router.Use(metrics.Middleware)
	}
	s.router.Use(s.requestContext)
}

// setupAPI mounts huma on the router with the envelope transformer and
// the domain error mapping.
func (s *Server) setupAPI() {
	humaConfig := huma.DefaultConfig("PartyDeck API", Version)
	humaConfig.OpenAPIPath = "/api/openapi"
	humaConfig.DocsPath = "/api/docs"
	humaConfig.SchemasPath = "/api/schemas"
	// No $schema links: bodies are wrapped in the envelope.
	humaConfig.CreateHooks = nil
	humaConfig.Transformers = []huma.Transformer{EnvelopeTransformer}
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler(s.logger)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerPublicRoutes()
	s.registerAuthRoutes()
	s.registerCategoryRoutes()
	s.registerPresetRoutes()

	// Multipart upload stays on plain chi.
	s.router.Post("/api/upload", s.handleUpload)

	if s.services.Images != nil {
		s.router.Get("/images/*", s.imageHandler().ServeHTTP)
	}

	if s.cfg.Metrics.Enabled {
		s.router.Handle("/metrics", metrics.Handler())
	}

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, msgEndpointNotFound, s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, msgEndpointNotFound, s.logger)
	})
}

// imageHandler serves uploaded images without directory listings.
func (s *Server) imageHandler() http.Handler {
	files := http.StripPrefix("/images/", http.FileServer(http.Dir(s.services.Images.Dir())))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			response.NotFound(w, msgEndpointNotFound, s.logger)
			return
		}
		files.ServeHTTP(w, r)
	})
}
