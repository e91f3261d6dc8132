package consult

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maumlog/maum-api/internal/domain"
	"github.com/maumlog/maum-api/internal/observability"
)

// Service orchestrates the bounded consult conversation: it owns the
// precondition chain around the ConsultSession entity and mediates between the
// repository and the counselor capability.
type Service struct {
	counselor domain.Counselor
	sessions  domain.ConsultRepository
	users     domain.UserRepository
	now       func() time.Time
	newID     func() string
}

func NewService(
	counselor domain.Counselor,
	sessions domain.ConsultRepository,
	users domain.UserRepository,
) *Service {
	return &Service{
		counselor: counselor,
		sessions:  sessions,
		users:     users,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

type StartOutput struct {
	SessionID domain.SessionID
	Greeting  string
}

// Start begins a new consultation for the authenticated user. The user must
// have a complete MBTI/gender profile.
func (s *Service) Start(ctx context.Context, userID domain.UserID) (*StartOutput, error) {
	log := observability.LoggerFromContext(ctx).With("user_id", userID)
	log.Info("starting consultation")

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		log.Error("failed to load user", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, userID)
	}
	if !user.HasProfile() {
		return nil, fmt.Errorf("%w: complete your profile first", domain.ErrInvalidState)
	}

	session, err := domain.NewConsultSession(
		domain.SessionID(s.newID()),
		userID,
		user.MBTI,
		user.Gender,
		s.now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		log.Error("failed to save session", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	greeting, err := s.counselor.GenerateGreeting(ctx, user.MBTI, user.Gender)
	if err != nil {
		log.Error("greeting generation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrCapability, err)
	}

	log.Info("consultation started", "session_id", session.ID())

	return &StartOutput{SessionID: session.ID(), Greeting: greeting}, nil
}

type SendMessageInput struct {
	SessionID domain.SessionID
	UserID    domain.UserID
	Content   string
}

type SendMessageOutput struct {
	Response       string
	RemainingTurns int
}

// SendMessage appends one user turn and the counselor's reply. The completion
// check runs against the state before the append: a session already at the
// turn limit rejects the next message instead of absorbing it.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	session, err := s.loadOwned(ctx, in.SessionID, in.UserID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID(),
		"user_id", session.UserID(),
		"turn", session.UserTurnCount()+1,
	)
	log.Info("sending message")

	if err := s.appendUserMessage(session, in.Content); err != nil {
		return nil, err
	}

	reply, err := s.counselor.GenerateResponse(ctx, session, in.Content)
	if err != nil {
		log.Error("counselor failed", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrCapability, err)
	}

	assistantMsg, err := domain.NewMessage(domain.RoleAssistant, reply, s.now())
	if err != nil {
		return nil, err
	}
	session.AddMessage(assistantMsg)

	if err := s.sessions.Save(ctx, session); err != nil {
		log.Error("failed to save session", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	log.Info("send message completed", "remaining_turns", session.RemainingTurns())

	return &SendMessageOutput{
		Response:       reply,
		RemainingTurns: session.RemainingTurns(),
	}, nil
}

// StreamMessage is SendMessage with incremental delivery. Each fragment is
// forwarded through sink as it arrives and concatenated locally; the assistant
// message is persisted exactly once, after the stream exhausts. A sink error
// (client gone) abandons the concatenation, leaving no assistant message.
func (s *Service) StreamMessage(ctx context.Context, in SendMessageInput, sink func(fragment string) error) error {
	session, err := s.loadOwned(ctx, in.SessionID, in.UserID)
	if err != nil {
		return err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID(),
		"user_id", session.UserID(),
		"turn", session.UserTurnCount()+1,
	)
	log.Info("streaming message")

	if err := s.appendUserMessage(session, in.Content); err != nil {
		return err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		log.Error("failed to save session", "error", err)
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	var full strings.Builder
	for fragment, err := range s.counselor.GenerateResponseStream(ctx, session, in.Content) {
		if err != nil {
			log.Error("counselor stream failed", "error", err)
			return fmt.Errorf("%w: %w", domain.ErrCapability, err)
		}
		if err := sink(fragment); err != nil {
			log.Info("stream consumer gone, abandoning response", "error", err)
			return nil
		}
		full.WriteString(fragment)
	}
	if strings.TrimSpace(full.String()) == "" {
		log.Error("counselor stream produced no content")
		return fmt.Errorf("%w: counselor returned an empty response", domain.ErrCapability)
	}

	assistantMsg, err := domain.NewMessage(domain.RoleAssistant, full.String(), s.now())
	if err != nil {
		return err
	}
	session.AddMessage(assistantMsg)

	if err := s.sessions.Save(ctx, session); err != nil {
		log.Error("failed to save session", "error", err)
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	log.Info("stream message completed", "remaining_turns", session.RemainingTurns())
	return nil
}

// Timeline returns the session and its ordered messages, owner-checked.
func (s *Service) Timeline(ctx context.Context, sessionID domain.SessionID, userID domain.UserID) (*domain.ConsultSession, error) {
	return s.loadOwned(ctx, sessionID, userID)
}

// loadOwned runs the shared precondition chain: existence, then ownership.
func (s *Service) loadOwned(ctx context.Context, sessionID domain.SessionID, userID domain.UserID) (*domain.ConsultSession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: consult session %q", domain.ErrNotFound, sessionID)
	}
	if session.UserID() != userID {
		return nil, fmt.Errorf("%w: session belongs to another user", domain.ErrForbidden)
	}
	return session, nil
}

// appendUserMessage gates on completion before mutating the log.
func (s *Service) appendUserMessage(session *domain.ConsultSession, content string) error {
	if session.IsCompleted() {
		return fmt.Errorf("%w: consultation already complete", domain.ErrInvalidState)
	}
	msg, err := domain.NewMessage(domain.RoleUser, content, s.now())
	if err != nil {
		return err
	}
	session.AddMessage(msg)
	return nil
}
