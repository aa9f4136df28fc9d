// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/freekicks/internal/adapters/mq/queue"
	"github.com/okian/freekicks/internal/domain/legend"
	"github.com/okian/freekicks/internal/domain/model"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	CatalogDependencies
	ImageDependencies
	SessionDependencies
}

// CatalogDependencies expose the read-only dataset.
type CatalogDependencies interface {
	Options(ctx context.Context) []string
	Legend(ctx context.Context) ([]legend.Swatch, error)
	Records(ctx context.Context, category string) []model.Record
	Record(ctx context.Context, id int) (model.Record, error)
}

// ImageDependencies render the background and the overview.
type ImageDependencies interface {
	Pitch(ctx context.Context) (data []byte, contentType string, err error)
	Overview(ctx context.Context, w io.Writer) error
}

// SessionDependencies drive viewer sessions through the UI loop.
type SessionDependencies interface {
	CreateSession(ctx context.Context) (queue.Result, error)
	Frame(ctx context.Context, sessionID string, settled bool) (queue.Result, error)
	Select(ctx context.Context, sessionID, category string) (queue.Result, error)
	PointerEnter(ctx context.Context, sessionID string, id int) (queue.Result, error)
	PointerLeave(ctx context.Context, sessionID string, id int) (queue.Result, error)
	CloseSession(ctx context.Context, sessionID string) error
	ExportSVG(ctx context.Context, sessionID string, w io.Writer) error
}

// Server wires HTTP routes for the chart API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	catalogHandler  *CatalogHandler
	imagesHandler   *ImagesHandler
	sessionsHandler *SessionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		catalogHandler:  NewCatalogHandler(deps),
		imagesHandler:   NewImagesHandler(deps),
		sessionsHandler: NewSessionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /options", MetricsMiddleware(s.catalogHandler.HandleOptions, "options"))
	mux.HandleFunc("GET /legend", MetricsMiddleware(s.catalogHandler.HandleLegend, "legend"))
	mux.HandleFunc("GET /records", MetricsMiddleware(s.catalogHandler.HandleRecords, "records"))
	mux.HandleFunc("GET /records/{id}", MetricsMiddleware(s.catalogHandler.HandleRecord, "record"))

	mux.HandleFunc("GET /pitch.webp", MetricsMiddleware(s.imagesHandler.HandlePitch, "pitch"))
	mux.HandleFunc("GET /overview.png", MetricsMiddleware(s.imagesHandler.HandleOverview, "overview"))

	mux.HandleFunc("POST /sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("GET /sessions/{sid}", MetricsMiddleware(s.sessionsHandler.HandleFrame, "session_frame"))
	mux.HandleFunc("DELETE /sessions/{sid}", MetricsMiddleware(s.sessionsHandler.HandleClose, "session_close"))
	mux.HandleFunc("POST /sessions/{sid}/filter", MetricsMiddleware(s.sessionsHandler.HandleFilter, "session_filter"))
	mux.HandleFunc("POST /sessions/{sid}/enter", MetricsMiddleware(s.sessionsHandler.HandleEnter, "session_enter"))
	mux.HandleFunc("POST /sessions/{sid}/leave", MetricsMiddleware(s.sessionsHandler.HandleLeave, "session_leave"))
	mux.HandleFunc("GET /sessions/{sid}/chart.svg", MetricsMiddleware(s.sessionsHandler.HandleSVG, "session_svg"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure derives status and code from err.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	writeError(w, status, code, err)
}
