package domain

import (
	"fmt"
	"time"
)

// MaxUserTurns is the turn budget of a consult session. A session is completed
// the instant the fifth user message is appended.
const MaxUserTurns = 5

// Message is a single entry in a consult session's conversation log. It has no
// identity of its own; its lifecycle is bound to the owning session.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// NewMessage builds a message, defaulting the timestamp to now.
func NewMessage(role Role, content string, ts time.Time) (Message, error) {
	if role != RoleUser && role != RoleAssistant {
		return Message{}, fmt.Errorf("%w: invalid message role %q", ErrValidation, role)
	}
	if content == "" {
		return Message{}, fmt.Errorf("%w: message content must not be empty", ErrValidation)
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	return Message{Role: role, Content: content, Timestamp: ts}, nil
}

// ConsultSession is the aggregate root of a bounded counseling conversation:
// one user, at most MaxUserTurns user messages, an ordered append-only log.
// Completion is derived from the log, never stored, so it cannot diverge from
// the messages after a persistence round-trip.
type ConsultSession struct {
	id        SessionID
	userID    UserID
	mbti      MBTI
	gender    Gender
	createdAt time.Time
	messages  []Message
}

// NewConsultSession validates and constructs a session with an empty log.
// A zero createdAt defaults to now.
func NewConsultSession(id SessionID, userID UserID, mbti MBTI, gender Gender, createdAt time.Time) (*ConsultSession, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: consult session id must not be empty", ErrValidation)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: consult session user_id must not be empty", ErrValidation)
	}
	if mbti == "" {
		return nil, fmt.Errorf("%w: consult session mbti must not be empty", ErrValidation)
	}
	if gender == "" {
		return nil, fmt.Errorf("%w: consult session gender must not be empty", ErrValidation)
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &ConsultSession{
		id:        id,
		userID:    userID,
		mbti:      mbti,
		gender:    gender,
		createdAt: createdAt,
	}, nil
}

func (s *ConsultSession) ID() SessionID        { return s.id }
func (s *ConsultSession) UserID() UserID       { return s.userID }
func (s *ConsultSession) MBTI() MBTI           { return s.mbti }
func (s *ConsultSession) Gender() Gender       { return s.gender }
func (s *ConsultSession) CreatedAt() time.Time { return s.createdAt }

// AddMessage appends to the ordered log. Conversation-level invariants (turn
// limits, ownership) are enforced by the use cases, keeping the entity free of
// collaborator dependencies.
func (s *ConsultSession) AddMessage(m Message) {
	s.messages = append(s.messages, m)
}

// Messages returns a copy of the ordered log; mutating the returned slice does
// not affect the session.
func (s *ConsultSession) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// UserTurnCount is the number of user-authored messages, recomputed from the
// log on every call.
func (s *ConsultSession) UserTurnCount() int {
	n := 0
	for _, m := range s.messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// IsCompleted reports whether the session has used its full turn budget.
func (s *ConsultSession) IsCompleted() bool {
	return s.UserTurnCount() >= MaxUserTurns
}

// RemainingTurns is the number of user turns still available.
func (s *ConsultSession) RemainingTurns() int {
	return max(0, MaxUserTurns-s.UserTurnCount())
}
