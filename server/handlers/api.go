package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// BoardHandler returns the caller's board view as JSON.
type BoardHandler struct {
	sessions Sessions
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(sessions Sessions) *BoardHandler {
	return &BoardHandler{sessions: sessions}
}

// ServeHTTP implements http.Handler.
func (h *BoardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessions.Session(w, r).View())
}

// RefreshHandler reloads the activity list and returns the resulting view.
type RefreshHandler struct {
	sessions Sessions
}

// NewRefreshHandler creates a new RefreshHandler.
func NewRefreshHandler(sessions Sessions) *RefreshHandler {
	return &RefreshHandler{sessions: sessions}
}

// ServeHTTP implements http.Handler.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Session(w, r)
	session.LoadActivities(r.Context())
	writeJSON(w, http.StatusOK, session.View())
}

// ActionHandler runs a signup or unregister action for the activity in the
// URL path and the email query parameter, then returns the resulting view.
// Upstream failures, including a missing email, are reported in the view's
// message, not the status code.
type ActionHandler struct {
	sessions Sessions
	action   func(b Board, ctx context.Context, activity, email string)
}

// NewSignupHandler handles POST /api/activities/{activity}/signup.
func NewSignupHandler(sessions Sessions) *ActionHandler {
	return &ActionHandler{sessions: sessions, action: Board.Signup}
}

// NewUnregisterHandler handles POST /api/activities/{activity}/unregister.
func NewUnregisterHandler(sessions Sessions) *ActionHandler {
	return &ActionHandler{sessions: sessions, action: Board.Unregister}
}

// ServeHTTP implements http.Handler.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	activity, err := activityParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid activity name"})
		return
	}

	session := h.sessions.Session(w, r)
	h.action(session, r.Context(), activity, r.URL.Query().Get("email"))
	writeJSON(w, http.StatusOK, session.View())
}

// activityParam returns the decoded {activity} path segment. The router
// matches on the escaped path when the request contains an encoded slash, in
// which case the parameter is still escaped.
func activityParam(r *http.Request) (string, error) {
	v := chi.URLParam(r, "activity")
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}
