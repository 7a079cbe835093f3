// Package board implements the activity board: the UI state of the sign-up
// page and the three operations that change it.
//
// A Board holds the activity collection shared by every visitor and derives
// the cards and the activity selector from it. Each visitor works through a
// Session, which owns that visitor's message area and form values. Sessions
// submit signup and unregister actions, reloading the shared collection after
// every successful mutation. Every failure is turned into a user-visible
// message on the session that caused it; nothing is returned to the caller.
//
// Network calls are made without holding the state lock, so concurrent
// actions interleave by response arrival order. A response that arrives late
// still applies, even if a newer request has already completed.
package board

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mergington/activityboard/clients/activityclient"
)

const (
	// DefaultMessageTimeout is how long a message stays visible.
	DefaultMessageTimeout = 5 * time.Second

	PlaceholderOption    = "-- Select an activity --"
	LoadingText          = "Loading activities..."
	LoadFailedText       = "Failed to load activities. Please try again later."
	GenericErrorText     = "An error occurred"
	SignupFailedText     = "Failed to sign up. Please try again."
	UnregisterFailedText = "Failed to unregister participant. Please try again."
)

// Message classes.
const (
	ClassSuccess = "success"
	ClassError   = "error"
)

// Client is the subset of the activities API the board needs.
type Client interface {
	Activities(ctx context.Context) (activityclient.Activities, error)
	Signup(ctx context.Context, activity, email string) (string, error)
	Unregister(ctx context.Context, activity, email string) (string, error)
}

// Scheduler runs f once after d. Scheduled calls are never cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Board holds the activity list shared by all sessions.
type Board struct {
	mu             sync.Mutex
	client         Client
	logger         *slog.Logger
	metrics        *Metrics
	scheduler      Scheduler
	messageTimeout time.Duration
	newID          func() string

	activities activityclient.Activities
	loaded     bool
	loadFailed bool
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger used for developer diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		b.logger = logger
	}
}

// WithMetrics records the outcome of every operation.
func WithMetrics(m *Metrics) Option {
	return func(b *Board) {
		b.metrics = m
	}
}

// WithScheduler replaces the timer used to hide messages.
func WithScheduler(s Scheduler) Option {
	return func(b *Board) {
		b.scheduler = s
	}
}

// WithMessageTimeout sets how long messages stay visible.
func WithMessageTimeout(d time.Duration) Option {
	return func(b *Board) {
		if d > 0 {
			b.messageTimeout = d
		}
	}
}

// New creates a Board backed by client. The board starts empty; call
// LoadActivities to populate it.
func New(client Client, opts ...Option) *Board {
	b := &Board{
		client:         client,
		logger:         slog.Default(),
		scheduler:      timeScheduler{},
		messageTimeout: DefaultMessageTimeout,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetClient swaps the API client used by subsequent operations.
func (b *Board) SetClient(client Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.client = client
}

func (b *Board) currentClient() Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.client
}

// View returns a snapshot of the shared state, with a hidden message and an
// empty form.
func (b *Board) View() View {
	return b.view(Message{Hidden: true}, Form{})
}

func (b *Board) view(msg Message, form Form) View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return newView(b.activities, b.loaded, b.loadFailed, msg, form)
}

// LoadActivities fetches the activity collection and replaces the rendered
// list and selector. On failure the list shows a static failure text; there
// is no retry.
func (b *Board) LoadActivities(ctx context.Context) {
	activities, err := b.currentClient().Activities(ctx)

	b.mu.Lock()
	b.loaded = true
	if err != nil {
		b.activities = nil
		b.loadFailed = true
		b.mu.Unlock()

		b.logger.Error("error fetching activities", "error", err)
		b.metrics.observe(actionLoad, outcomeOf(err))
		return
	}
	b.activities = activities
	b.loadFailed = false
	b.mu.Unlock()

	b.logger.Debug("activities loaded", "count", len(activities))
	b.metrics.observe(actionLoad, outcomeSuccess)
	b.metrics.setActivities(len(activities))
}
