// Package conversation runs the bot's multi-step forms. A form is a linear
// list of steps followed by a yes/no confirmation; each user has at most
// one active form at a time.
package conversation

import (
	"context"
	"errors"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/observability"
	"github.com/Anycrabs/telegram-masters-bot/pkg/utils"
)

// Kind identifies a form
type Kind string

const (
	KindApplication Kind = "application"
	KindReview      Kind = "review"
	KindInfoEdit    Kind = "info_edit"
	KindFAQAdd      Kind = "faq_add"
)

// ConfirmStep is the step name reported while a form awaits confirmation
const ConfirmStep = "confirm"

// Input is one inbound message as seen by a form
type Input struct {
	Text    string
	PhotoID string
}

// Reply is one outbound message
type Reply struct {
	Text   string
	Markup providers.ReplyMarkup
}

// Identity is the user a session belongs to
type Identity struct {
	UserID   int64
	ChatID   int64
	Username string
}

// Step is one prompt of a form. Accept parses the input into fields; an
// InputError keeps the form on the same step.
type Step struct {
	Name   string
	Prompt func(Fields) Reply
	Accept func(Input, Fields) error
}

// Form is a linear sequence of steps ending in a confirmation
type Form struct {
	Kind      Kind
	Steps     []Step
	Confirm   func(Fields) Reply
	Commit    func(ctx context.Context, s *Session) (Reply, error)
	Cancelled Reply
}

// Session is the state of one user's active form
type Session struct {
	Identity
	Form   *Form
	Step   int
	Fields Fields
}

// StepName returns the name of the current step
func (s *Session) StepName() string {
	if s.Step >= len(s.Form.Steps) {
		return ConfirmStep
	}
	return s.Form.Steps[s.Step].Name
}

// InputError rejects the input of a step; Message is sent back and the
// step is asked again
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Reject builds an InputError
func Reject(message string) error {
	return &InputError{Message: message}
}

var affirmative = map[string]bool{"да": true, "yes": true, "y": true}

// IsAffirmative reports whether text confirms a form
func IsAffirmative(text string) bool {
	return affirmative[utils.NormalizeToken(text)]
}

// Machine routes user input into active sessions
type Machine struct {
	store *Store
}

// NewMachine creates a machine over store
func NewMachine(store *Store) *Machine {
	return &Machine{store: store}
}

// Begin starts form for the user, replacing any form already active, and
// returns the first prompt. bound carries values fixed at start.
func (m *Machine) Begin(ctx context.Context, form *Form, who Identity, bound Fields) Reply {
	unlock := m.store.Lock(who.UserID)
	defer unlock()

	fields := Fields{}
	for k, v := range bound {
		fields[k] = v
	}
	session := &Session{Identity: who, Form: form, Fields: fields}
	m.store.put(session)

	observability.LoggerFromContext(ctx).Debug().
		Str("form", string(form.Kind)).
		Msg("form started")

	return session.prompt()
}

// Cancel drops the user's active form. It reports whether one existed.
func (m *Machine) Cancel(userID int64) bool {
	unlock := m.store.Lock(userID)
	defer unlock()
	return m.store.delete(userID)
}

// Active returns the kind of the user's active form
func (m *Machine) Active(userID int64) (Kind, bool) {
	unlock := m.store.Lock(userID)
	defer unlock()
	s := m.store.get(userID)
	if s == nil {
		return "", false
	}
	return s.Form.Kind, true
}

// Handle feeds in to the user's active form. handled is false when the user
// has no active form; the input is then left to stateless handlers. An
// error is returned only from a failed commit, after the session is gone.
func (m *Machine) Handle(ctx context.Context, userID int64, in Input) (replies []Reply, handled bool, err error) {
	unlock := m.store.Lock(userID)
	defer unlock()

	session := m.store.get(userID)
	if session == nil {
		return nil, false, nil
	}

	if session.Step < len(session.Form.Steps) {
		return m.advance(ctx, session, in), true, nil
	}

	m.store.delete(userID)
	logger := observability.LoggerFromContext(ctx).With().Str("form", string(session.Form.Kind)).Logger()

	if !IsAffirmative(in.Text) || in.PhotoID != "" {
		logger.Debug().Msg("form cancelled")
		return []Reply{session.Form.Cancelled}, true, nil
	}

	reply, err := session.Form.Commit(ctx, session)
	if err != nil {
		logger.Error().Err(err).Msg("form commit failed")
		return nil, true, err
	}
	logger.Info().Msg("form committed")
	return []Reply{reply}, true, nil
}

func (m *Machine) advance(ctx context.Context, session *Session, in Input) []Reply {
	step := session.Form.Steps[session.Step]

	if err := step.Accept(in, session.Fields); err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) && inputErr.Message != "" {
			return []Reply{{Text: inputErr.Message}}
		}
		return []Reply{session.prompt()}
	}

	session.Step++
	observability.LoggerFromContext(ctx).Debug().
		Str("form", string(session.Form.Kind)).
		Str("step", session.StepName()).
		Msg("form advanced")
	return []Reply{session.prompt()}
}

func (s *Session) prompt() Reply {
	if s.Step >= len(s.Form.Steps) {
		return s.Form.Confirm(s.Fields)
	}
	return s.Form.Steps[s.Step].Prompt(s.Fields)
}
