package handlers

import (
	"log/slog"
	"net/http"
)

// ReloadResponse describes the configuration in effect after a reload.
type ReloadResponse struct {
	Upstream        string `json:"upstream"`
	RefreshSchedule string `json:"refresh_schedule,omitempty"`
}

// ReloadHandler rereads the config file and swaps the upstream client. The
// board keeps its activity list until the next load.
type ReloadHandler struct {
	logger         *slog.Logger
	reloader       Reloader
	configProvider ConfigProvider
}

// NewReloadHandler creates a new ReloadHandler.
func NewReloadHandler(logger *slog.Logger, reloader Reloader, provider ConfigProvider) *ReloadHandler {
	return &ReloadHandler{
		logger:         logger,
		reloader:       reloader,
		configProvider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *ReloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.reloader.Reload(); err != nil {
		h.logger.Error("failed to reload configuration", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "failed to reload configuration: " + err.Error(),
		})
		return
	}

	cfg := h.configProvider.Config().Redacted()
	h.logger.Info("configuration reloaded", "upstream", cfg.Upstream.URL)
	writeJSON(w, http.StatusOK, ReloadResponse{
		Upstream:        cfg.Upstream.URL,
		RefreshSchedule: cfg.Board.RefreshSchedule,
	})
}
