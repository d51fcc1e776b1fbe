package api

import (
	"errors"
	"net/http"

	service "github.com/okian/govdash/internal/app"
	"github.com/okian/govdash/internal/domain/navigation"
)

// SessionCookie carries the shell session id between requests.
const SessionCookie = "govdash_session"

// SectionsHandler serves the navigation tabs.
type SectionsHandler struct{}

// NewSectionsHandler creates a new sections handler.
func NewSectionsHandler() *SectionsHandler {
	return &SectionsHandler{}
}

type sectionsResponse struct {
	Default  navigation.ViewID    `json:"default"`
	Sections []navigation.Section `json:"sections"`
}

// HandleSections handles GET /api/sections requests.
func (h *SectionsHandler) HandleSections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, sectionsResponse{Default: navigation.DefaultView, Sections: navigation.Sections()})
}

// ViewsHandler serves stateless view documents.
type ViewsHandler struct {
	deps Dependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps Dependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

// HandleGetView handles GET /api/views/{view} requests. Backend failures are
// reported in the document status, never as an HTTP error.
func (h *ViewsHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	view, ok := navigation.Parse(r.PathValue("view"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", ErrUnknownView)
		return
	}
	doc, err := h.deps.Render(r.Context(), view)
	if err != nil {
		if errors.Is(err, service.ErrUnknownView) {
			writeError(w, http.StatusNotFound, "not_found", ErrUnknownView)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", ErrRender)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ShellHandler serves session-aware navigation.
type ShellHandler struct {
	deps Dependencies
}

// NewShellHandler creates a new shell handler.
func NewShellHandler(deps Dependencies) *ShellHandler {
	return &ShellHandler{deps: deps}
}

// HandleShell handles GET /api/shell?section={id} requests. An unknown or
// missing section selects the default view. When a newer navigation in the
// same session supersedes this one, it answers 409 and the client must drop
// the response.
func (h *ShellHandler) HandleShell(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	var sessionID string
	if c, err := r.Cookie(SessionCookie); err == nil {
		sessionID = c.Value
	}

	shell, err := h.deps.Navigate(r.Context(), sessionID, r.URL.Query().Get("section"))
	if err != nil {
		if errors.Is(err, service.ErrStaleActivation) {
			writeError(w, http.StatusConflict, "superseded", ErrSuperseded)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", ErrRender)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    shell.SessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, shell)
}
