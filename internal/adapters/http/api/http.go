// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/govdash/internal/app"
	"github.com/okian/govdash/internal/domain/navigation"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Render assembles one view without touching any session.
	Render(ctx context.Context, view navigation.ViewID) (service.Document, error)

	// Navigate activates a section in the named shell session.
	Navigate(ctx context.Context, sessionID, section string) (service.Shell, error)
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sectionsHandler *SectionsHandler
	viewsHandler    *ViewsHandler
	shellHandler    *ShellHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		sectionsHandler: NewSectionsHandler(),
		viewsHandler:    NewViewsHandler(deps),
		shellHandler:    NewShellHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", Observe("healthz", s.healthHandler.HandleHealth))
	mux.Handle("/metrics", MetricsHandler())
	mux.HandleFunc("/stats", Observe("stats", s.statsHandler.HandleStats))
	mux.HandleFunc("/api/sections", Observe("sections", s.sectionsHandler.HandleSections))
	mux.HandleFunc("/api/views/{view}", Observe("views", s.viewsHandler.HandleGetView))
	mux.HandleFunc("/api/shell", Observe("shell", s.shellHandler.HandleShell))
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
