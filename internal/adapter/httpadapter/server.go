package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/flight-risk-service/internal/domain"
	"github.com/couchcryptid/flight-risk-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Service is the assessment pipeline behind the API.
type Service interface {
	sharedobs.ReadinessChecker
	Process(ctx context.Context, reading domain.Reading) (domain.Report, error)
	ProcessBatch(ctx context.Context, readings []domain.Reading) ([]domain.Report, error)
	Registry() *domain.Registry
}

// Options tunes the API surface.
type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	MaxBatchSize   int
}

// Server exposes the risk API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        Service
	opts       Options
	validate   *validator.Validate
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with the API routes, /healthz, /readyz,
// and /metrics, wrapped in CORS handling.
func NewServer(addr string, svc Service, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:      svc,
		opts:     opts,
		validate: newValidator(),
		logger:   logger,
		metrics:  metrics,
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      newCORS(opts.AllowedOrigins).Handler(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /api/calculate-risk", s.handleCalculateRisk)
	mux.HandleFunc("POST /api/calculate-risk/batch", s.handleCalculateRiskBatch)
	mux.HandleFunc("GET /api/factors", s.handleFactors)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

func newCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
