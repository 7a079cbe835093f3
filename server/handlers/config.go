package handlers

import (
	"log/slog"
	"net/http"

	"gopkg.in/yaml.v3"
)

// ConfigHandler serves the current configuration as YAML, with passwords in
// URLs masked. The optional section query parameter selects one top-level
// block, e.g. /config?section=upstream.
type ConfigHandler struct {
	logger         *slog.Logger
	configProvider ConfigProvider
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(logger *slog.Logger, provider ConfigProvider) *ConfigHandler {
	return &ConfigHandler{
		logger:         logger,
		configProvider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cfg := h.configProvider.Config().Redacted()

	sections := map[string]any{
		"":           cfg,
		"upstream":   cfg.Upstream,
		"board":      cfg.Board,
		"listener":   cfg.Listener,
		"monitoring": cfg.Monitoring,
		"logging":    cfg.Logging,
	}
	section := r.URL.Query().Get("section")
	v, ok := sections[section]
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "unknown config section: " + section})
		return
	}

	w.Header().Set("Content-Type", "text/yaml")
	w.WriteHeader(http.StatusOK)
	if err := yaml.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode YAML response", "error", err)
	}
}
