// Package handlers provides HTTP handlers for the activity board server.
//
// Each handler is in its own file and implements http.Handler.
// Handlers use interfaces to access server dependencies, avoiding
// circular imports.
package handlers

import (
	"context"
	"net/http"

	"github.com/mergington/activityboard/board"
	"github.com/mergington/activityboard/config"
	"github.com/mergington/activityboard/logging"
)

// ConfigProvider provides access to the current configuration.
type ConfigProvider interface {
	Config() *config.Config
}

// Reloader can reload its configuration.
type Reloader interface {
	Reload() error
}

// ViewProvider provides a snapshot of the board state.
type ViewProvider interface {
	View() board.View
}

// Board is one visitor's session on the activity board.
type Board interface {
	ViewProvider
	LoadActivities(ctx context.Context)
	Signup(ctx context.Context, activity, email string)
	Unregister(ctx context.Context, activity, email string)
}

// Sessions resolves the visitor's session for a request, starting one when
// the request carries none. It may set response headers, so it must be called
// before the response is written.
type Sessions interface {
	Session(w http.ResponseWriter, r *http.Request) Board
}

// Console provides access to captured diagnostics.
type Console interface {
	Entries() []logging.LogEntry
	Clear()
}
