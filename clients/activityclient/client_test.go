package activityclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		host    string
		opts    []Option
		want    string
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid http host",
			host: "http://localhost:8000",
			opts: []Option{WithLogger(logger)},
			want: "http://localhost:8000",
		},
		{
			name: "trailing slash trimmed",
			host: "https://activities.example.com/",
			want: "https://activities.example.com",
		},
		{
			name:    "missing scheme",
			host:    "activities.example.com",
			wantErr: true,
			errMsg:  "host URL must include scheme",
		},
		{
			name:    "invalid url",
			host:    "http://:invalid",
			wantErr: true,
			errMsg:  "invalid host URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.host, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.Host)
			assert.NotNil(t, client.Logger)
		})
	}
}

func TestNew_TimeoutDoesNotModifyInjectedClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	tests := []struct {
		name string
		opts []Option
	}{
		{name: "timeout after client", opts: []Option{WithHTTPClient(shared), WithTimeout(3 * time.Second)}},
		{name: "timeout before client", opts: []Option{WithTimeout(3 * time.Second), WithHTTPClient(shared)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New("http://localhost:8000", tt.opts...)
			require.NoError(t, err)

			assert.Equal(t, 3*time.Second, client.client.Timeout)
			assert.NotSame(t, shared, client.client)
			assert.Equal(t, time.Minute, shared.Timeout)
		})
	}

	client, err := New("http://localhost:8000", WithHTTPClient(shared))
	require.NoError(t, err)
	assert.Same(t, shared, client.client, "without a timeout the injected client is used as is")

	client, err = New("http://localhost:8000")
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, client.client.Timeout)
}

func TestActivities(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse string
		status         int
		wantErr        error
		verifyFn       func(t *testing.T, activities Activities)
	}{
		{
			name: "success keeps server order",
			serverResponse: `{
				"Programming Class": {"description": "p", "schedule": "Tue", "max_participants": 20, "participants": []},
				"Chess Club": {"description": "d", "schedule": "Mon", "max_participants": 10, "participants": ["a@x.com"]},
				"Art Studio": {"description": "a", "schedule": "Wed", "max_participants": 5, "participants": null}
			}`,
			status: http.StatusOK,
			verifyFn: func(t *testing.T, activities Activities) {
				assert.Equal(t, []string{"Programming Class", "Chess Club", "Art Studio"}, activities.Names())
				chess := activities[1]
				assert.Equal(t, "d", chess.Description)
				assert.Equal(t, "Mon", chess.Schedule)
				assert.Equal(t, 10, chess.MaxParticipants)
				assert.Equal(t, []string{"a@x.com"}, chess.Participants)
				assert.Equal(t, 9, chess.AvailableSpots())
				assert.NotNil(t, activities[2].Participants)
				assert.Equal(t, 5, activities[2].AvailableSpots())
			},
		},
		{
			name:           "empty collection",
			serverResponse: `{}`,
			status:         http.StatusOK,
			verifyFn: func(t *testing.T, activities Activities) {
				assert.Empty(t, activities)
			},
		},
		{
			name:           "not an object",
			serverResponse: `["Chess Club"]`,
			status:         http.StatusOK,
			wantErr:        ErrMalformedResponse,
		},
		{
			name:           "invalid json",
			serverResponse: `<html>oops</html>`,
			status:         http.StatusOK,
			wantErr:        ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/activities", r.URL.Path)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.serverResponse))
			}))
			defer ts.Close()

			client, err := New(ts.URL)
			require.NoError(t, err)

			activities, err := client.Activities(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.verifyFn != nil {
				tt.verifyFn(t, activities)
			}
		})
	}
}

func TestActivities_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail": "maintenance"}`))
	}))
	defer ts.Close()

	client, err := New(ts.URL)
	require.NoError(t, err)

	_, err = client.Activities(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "maintenance", apiErr.Detail)
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantDetail string
		wantStatus int
		wantErr    error
	}{
		{
			name:    "success",
			status:  http.StatusOK,
			body:    `{"message": "Signed up a b@x.com for Chess Club/Advanced"}`,
			wantMsg: "Signed up a b@x.com for Chess Club/Advanced",
		},
		{
			name:       "already signed up",
			status:     http.StatusBadRequest,
			body:       `{"detail": "Student is already signed up"}`,
			wantDetail: "Student is already signed up",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "failure without detail",
			status:     http.StatusInternalServerError,
			body:       `{}`,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "structured detail",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail": [{"loc": ["query", "email"], "msg": "field required"}]}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/activities/Chess%20Club%2FAdvanced/signup", r.URL.EscapedPath())
				assert.Equal(t, "a b@x.com", r.URL.Query().Get("email"))
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			client, err := New(ts.URL)
			require.NoError(t, err)

			msg, err := client.Signup(context.Background(), "Chess Club/Advanced", "a b@x.com")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantStatus != 0:
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				assert.Equal(t, tt.wantDetail, apiErr.Detail)
				assert.Empty(t, msg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantMsg, msg)
			}
		})
	}
}

func TestUnregister(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/activities/Chess%20Club/unregister", r.URL.EscapedPath())
		assert.Equal(t, "a+tag@x.com", r.URL.Query().Get("email"))
		w.Write([]byte(`{"message": "Unregistered a+tag@x.com from Chess Club"}`))
	}))
	defer ts.Close()

	client, err := New(ts.URL)
	require.NoError(t, err)

	msg, err := client.Unregister(context.Background(), "Chess Club", "a+tag@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Unregistered a+tag@x.com from Chess Club", msg)
}

func TestTransportError(t *testing.T) {
	client, err := New("http://example.com")
	require.NoError(t, err)

	client.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}),
	}

	_, err = client.Signup(context.Background(), "Chess Club", "a@x.com")
	assert.ErrorIs(t, err, ErrTransport)

	_, err = client.Activities(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

type errorReader struct{}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, errors.New("read error")
}

func (e *errorReader) Close() error {
	return nil
}

func TestReadError(t *testing.T) {
	client, err := New("http://example.com")
	require.NoError(t, err)

	client.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       &errorReader{},
			}, nil
		}),
	}

	_, err = client.Unregister(context.Background(), "Chess Club", "a@x.com")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "failed to read response body")
}

func TestActionURL(t *testing.T) {
	assert.Equal(t,
		"http://h/activities/Drama%20&%20Film%2F2/signup?email=x%26y%40z.com",
		ActionURL("http://h/", "signup", "Drama & Film/2", "x&y@z.com"),
	)
}

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
