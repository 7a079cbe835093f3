package handlers

import "net/http"

// Health states reported by HealthHandler.
const (
	HealthOK          = "ok"
	HealthLoading     = "loading"
	HealthUnavailable = "activities unavailable"
)

// HealthHandler reports whether the board could load the activity list.
// It answers 503 only when the last load failed; before the first load the
// board is still starting and reports "loading".
type HealthHandler struct {
	board ViewProvider
}

// NewHealthHandler creates a new HealthHandler over the shared board state.
func NewHealthHandler(b ViewProvider) *HealthHandler {
	return &HealthHandler{board: b}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, HealthOK
	switch v := h.board.View(); {
	case !v.Loaded:
		body = HealthLoading
	case v.LoadFailed:
		status, body = http.StatusServiceUnavailable, HealthUnavailable
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
