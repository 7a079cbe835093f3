package board

import (
	"context"
	"errors"
	"sync"

	"github.com/mergington/activityboard/clients/activityclient"
)

// Session is one visitor's view of a Board. The activity list is shared; the
// message area and the form values belong to the session.
type Session struct {
	board *Board

	mu      sync.Mutex
	message Message
	form    Form
}

// NewSession starts a session with a hidden message and an empty form.
func (b *Board) NewSession() *Session {
	return &Session{
		board:   b,
		message: Message{Hidden: true},
	}
}

// View returns the shared activity list combined with the session's message
// and form.
func (s *Session) View() View {
	s.mu.Lock()
	msg, form := s.message, s.form
	s.mu.Unlock()
	return s.board.view(msg, form)
}

// LoadActivities reloads the shared activity list.
func (s *Session) LoadActivities(ctx context.Context) {
	s.board.LoadActivities(ctx)
}

// Signup submits the sign-up form for activity and email.
func (s *Session) Signup(ctx context.Context, activity, email string) {
	s.mu.Lock()
	s.form = Form{Activity: activity, Email: email}
	s.mu.Unlock()

	msg, err := s.board.currentClient().Signup(ctx, activity, email)
	s.board.metrics.observe(actionSignup, outcomeOf(err))
	if err != nil {
		s.showFailure(err, SignupFailedText, "error signing up", activity, email)
		return
	}

	s.mu.Lock()
	s.form = Form{}
	s.mu.Unlock()

	s.board.LoadActivities(ctx)
	s.showMessage(msg, ClassSuccess)
}

// Unregister removes email from activity, as the participant delete control does.
func (s *Session) Unregister(ctx context.Context, activity, email string) {
	msg, err := s.board.currentClient().Unregister(ctx, activity, email)
	s.board.metrics.observe(actionUnregister, outcomeOf(err))
	if err != nil {
		s.showFailure(err, UnregisterFailedText, "error unregistering", activity, email)
		return
	}

	s.board.LoadActivities(ctx)

	s.mu.Lock()
	s.form.Activity = ""
	s.mu.Unlock()

	s.showMessage(msg, ClassSuccess)
}

// showFailure shows the server's detail for application errors and the
// fallback text for transport or decoding errors.
func (s *Session) showFailure(err error, fallback, logMsg, activity, email string) {
	logger := s.board.logger

	var apiErr *activityclient.APIError
	if errors.As(err, &apiErr) {
		text := apiErr.Detail
		if text == "" {
			text = GenericErrorText
		}
		logger.Warn(logMsg, "activity", activity, "email", email, "status", apiErr.StatusCode, "detail", apiErr.Detail)
		s.showMessage(text, ClassError)
		return
	}

	logger.Error(logMsg, "activity", activity, "email", email, "error", err)
	s.showMessage(fallback, ClassError)
}

// showMessage makes text visible and schedules it to hide. Earlier hide timers
// are left running, so an older timer can hide a newer message.
func (s *Session) showMessage(text, class string) {
	s.mu.Lock()
	s.message = Message{
		ID:     s.board.newID(),
		Text:   text,
		Class:  class,
		Hidden: false,
	}
	s.mu.Unlock()

	s.board.scheduler.AfterFunc(s.board.messageTimeout, s.hideMessage)
}

func (s *Session) hideMessage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message.Hidden = true
}
