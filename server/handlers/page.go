package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/mergington/activityboard/board"
)

// PageHandler renders the board page.
type PageHandler struct {
	logger         *slog.Logger
	sessions       Sessions
	configProvider ConfigProvider
}

// NewPageHandler creates a new PageHandler. The page title is read from the
// current configuration on every request.
func NewPageHandler(logger *slog.Logger, sessions Sessions, provider ConfigProvider) *PageHandler {
	return &PageHandler{
		logger:         logger,
		sessions:       sessions,
		configProvider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Session(w, r)

	var title string
	if cfg := h.configProvider.Config(); cfg != nil {
		title = cfg.Board.Title
	}

	var buf bytes.Buffer
	if err := board.RenderHTML(&buf, title, session.View()); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
