package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/uuid"
)

// State is the session's position in the turn lifecycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingModelResponse
	StateApplyingToolCalls
)

const (
	failureReply   = "😵 Desculpe, tive um problema. Tente novamente."
	rateLimitReply = "⏳ Muitas solicitações agora. Tente novamente em instantes."
)

// Session owns one user's chat history and context snapshot.
//
// At most one turn is in flight at a time: a submission while a turn
// is running is rejected, never queued. The user message is appended
// before the model call; the reply and tool-call confirmations are
// appended strictly after, in tool-call order.
type Session struct {
	userID  string
	client  ModelClient
	applier ToolApplier
	timeout time.Duration

	mu          sync.Mutex
	state       State
	userContext string
	history     []Message
}

// NewSession creates an idle session with the given context snapshot.
func NewSession(userID, userContext string, client ModelClient, applier ToolApplier, timeout time.Duration) *Session {
	return &Session{
		userID:      userID,
		client:      client,
		applier:     applier,
		timeout:     timeout,
		userContext: userContext,
	}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a copy of the session's message history.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// RefreshContext replaces the context snapshot. Only an idle session
// can be refreshed; a snapshot never changes mid-turn.
func (s *Session) RefreshContext(userContext string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return false
	}
	s.userContext = userContext
	return true
}

// SendTurn runs one full chat turn: append the user message, call the
// model, append its reply, then apply tool calls in order. Tool calls
// are applied independently with no rollback; a failed call is logged
// and skipped. On model failure the turn ends with an apology message
// in history and the error returned, with no tool calls applied.
func (s *Session) SendTurn(ctx context.Context, text string, attachment *Attachment) (*TurnResult, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, apperrors.ErrTurnInFlight
	}
	s.state = StateAwaitingModelResponse

	userMsg := Message{ID: uuid.New(), Role: RoleUser, Text: text}
	if attachment != nil {
		userMsg.Attachment = &AttachmentInfo{Name: attachment.Name, MIMEType: attachment.MIMEType}
	}
	prior := make([]Message, len(s.history))
	copy(prior, s.history)
	s.history = append(s.history, userMsg)
	userContext := s.userContext
	s.mu.Unlock()

	outgoing := text
	var binary *Attachment
	if attachment != nil {
		if attachment.Text != "" {
			outgoing = text + "\n\n" + attachment.Text
		}
		if len(attachment.Data) > 0 {
			binary = attachment
		}
	}
	if outgoing == "" {
		outgoing = "Analisar"
	}

	turnCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.client.Chat(turnCtx, &TurnRequest{
		Message:     outgoing,
		History:     prior,
		UserContext: userContext,
		Attachment:  binary,
	})
	if err != nil {
		return nil, s.failTurn(err)
	}

	s.mu.Lock()
	s.state = StateApplyingToolCalls
	modelMsg := Message{ID: uuid.New(), Role: RoleModel, Text: reply.Text, Sources: reply.Sources}
	s.history = append(s.history, modelMsg)
	s.mu.Unlock()

	var confirmations []string
	for _, call := range reply.ToolCalls {
		confirmation, applyErr := s.applier.Apply(s.userID, call)
		if applyErr != nil {
			logger.Get().Warnw("tool call failed",
				"user_id", s.userID,
				"tool", call.Name,
				"error", applyErr,
			)
			continue
		}
		if confirmation == "" {
			continue
		}
		confirmations = append(confirmations, confirmation)
		s.mu.Lock()
		s.history = append(s.history, Message{ID: uuid.New(), Role: RoleModel, Text: confirmation})
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.state = StateIdle
	result := &TurnResult{
		Reply:         reply.Text,
		Sources:       reply.Sources,
		Confirmations: confirmations,
		History:       make([]Message, len(s.history)),
	}
	copy(result.History, s.history)
	s.mu.Unlock()

	return result, nil
}

// failTurn records an apology message and returns the session to Idle.
func (s *Session) failTurn(err error) error {
	reply := failureReply
	out := err

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Code == apperrors.ErrRateLimited.Code:
		reply = rateLimitReply
	case errors.Is(err, context.DeadlineExceeded):
		out = apperrors.Wrap(apperrors.ErrExternalService, err)
	case !errors.As(err, &appErr):
		out = apperrors.Wrap(apperrors.ErrExternalService, err)
	}

	s.mu.Lock()
	s.history = append(s.history, Message{ID: uuid.New(), Role: RoleModel, Text: reply})
	s.state = StateIdle
	s.mu.Unlock()
	return out
}

// Manager hands out one session per user.
type Manager struct {
	client  ModelClient
	applier ToolApplier
	timeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager backed by the given collaborators.
func NewManager(client ModelClient, applier ToolApplier, timeout time.Duration) *Manager {
	return &Manager{
		client:   client,
		applier:  applier,
		timeout:  timeout,
		sessions: make(map[string]*Session),
	}
}

// Session returns the user's session, creating it on first use. The
// context snapshot is installed on creation and refreshed between
// turns; a busy session keeps the snapshot it started with.
func (m *Manager) Session(userID, userContext string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		sess = NewSession(userID, userContext, m.client, m.applier, m.timeout)
		m.sessions[userID] = sess
		return sess
	}
	sess.RefreshContext(userContext)
	return sess
}

// Reset discards the user's session and its history.
func (m *Manager) Reset(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
