package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/boss-respawn-tracker/internal/domain"
	"github.com/couchcryptid/boss-respawn-tracker/internal/observability"
	"github.com/couchcryptid/boss-respawn-tracker/internal/tracker"
)

// Querier answers read-only questions about the current event set.
type Querier interface {
	Ready() ([]domain.Entry, *tracker.Snapshot)
	Next(n int) ([]domain.Entry, *tracker.Snapshot)
	FindByName(query string) (domain.Entry, *tracker.Snapshot, error)
	ListPage(page int) (domain.Page, *tracker.Snapshot)
}

// Refresher runs an on-demand refresh and reports readiness.
type Refresher interface {
	sharedobs.ReadinessChecker
	RefreshOnce(ctx context.Context, trigger string) (tracker.RefreshResult, error)
}

// Server exposes the query API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	querier    Querier
	refresher  Refresher
	adminToken string
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server. An empty adminToken disables
// POST /api/refresh.
func NewServer(addr string, q Querier, r Refresher, adminToken string, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
			// The refresh route waits on the sheet fetch.
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:     logger,
		querier:    q,
		refresher:  r,
		adminToken: adminToken,
		metrics:    metrics,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(r))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api", s.handleIndex)
	mux.HandleFunc("GET /api/ready", s.handleReady)
	mux.HandleFunc("GET /api/next", s.handleNext)
	mux.HandleFunc("GET /api/bosses", s.handleList)
	mux.HandleFunc("GET /api/bosses/search", s.handleSearch)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	return s
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
