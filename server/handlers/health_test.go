package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mergington/activityboard/board"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		view       board.View
		wantStatus int
		wantBody   string
	}{
		{
			name:       "before first load",
			view:       board.View{},
			wantStatus: http.StatusOK,
			wantBody:   HealthLoading,
		},
		{
			name:       "loaded",
			view:       chessView(),
			wantStatus: http.StatusOK,
			wantBody:   HealthOK,
		},
		{
			name:       "load failed",
			view:       board.View{Loaded: true, LoadFailed: true},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   HealthUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(&fakeBoard{view: tt.view})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}
