package handlers

import (
	"net/http"

	"github.com/mergington/activityboard/logging"
)

// ConsoleResponse lists captured diagnostics, oldest first.
type ConsoleResponse struct {
	Entries []logging.LogEntry `json:"entries"`
}

// ConsoleHandler exposes the diagnostics console.
type ConsoleHandler struct {
	console Console
}

// NewConsoleHandler creates a new ConsoleHandler.
func NewConsoleHandler(console Console) *ConsoleHandler {
	return &ConsoleHandler{console: console}
}

// ServeHTTP implements http.Handler. GET lists entries and DELETE clears them.
func (h *ConsoleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodDelete {
		h.console.Clear()
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, ConsoleResponse{Entries: h.console.Entries()})
}
