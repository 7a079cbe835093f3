package handlers

import (
	"context"
	"log/slog"
	"net/http"
)

// FormHandler handles the sign-up form and the participant delete controls.
// Both post activity and email fields and are redirected back to the page,
// where the outcome is shown in the message area.
type FormHandler struct {
	logger   *slog.Logger
	sessions Sessions
	action   func(b Board, ctx context.Context, activity, email string)
}

// NewSignupFormHandler handles POST /signup.
func NewSignupFormHandler(logger *slog.Logger, sessions Sessions) *FormHandler {
	return &FormHandler{logger: logger, sessions: sessions, action: Board.Signup}
}

// NewUnregisterFormHandler handles POST /unregister. Every delete control on
// the page posts here, identified by its hidden activity and email fields.
func NewUnregisterFormHandler(logger *slog.Logger, sessions Sessions) *FormHandler {
	return &FormHandler{logger: logger, sessions: sessions, action: Board.Unregister}
}

// ServeHTTP implements http.Handler.
func (h *FormHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("failed to parse form", "error", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	session := h.sessions.Session(w, r)
	h.action(session, r.Context(), r.PostForm.Get("activity"), r.PostForm.Get("email"))
	redirectHome(w, r)
}
