package memory

import (
	"context"
	"sync"
	"time"

	"github.com/maumlog/maum-api/internal/domain"
)

// consultSnapshot is the stored form of a session. Keeping a flat snapshot
// instead of the aggregate itself gives save genuine full-replace semantics
// and makes every load an independent rehydration.
type consultSnapshot struct {
	userID    domain.UserID
	mbti      domain.MBTI
	gender    domain.Gender
	createdAt time.Time
	messages  []domain.Message
}

// ConsultRepository is an in-memory implementation of
// domain.ConsultRepository. Not persistent; for development and tests.
type ConsultRepository struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]consultSnapshot
}

func NewConsultRepository() *ConsultRepository {
	return &ConsultRepository{
		sessions: make(map[domain.SessionID]consultSnapshot),
	}
}

func (r *ConsultRepository) Save(ctx context.Context, session *domain.ConsultSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID()] = consultSnapshot{
		userID:    session.UserID(),
		mbti:      session.MBTI(),
		gender:    session.Gender(),
		createdAt: session.CreatedAt(),
		messages:  session.Messages(),
	}
	return nil
}

func (r *ConsultRepository) FindByID(ctx context.Context, id domain.SessionID) (*domain.ConsultSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}

	session, err := domain.NewConsultSession(id, snap.userID, snap.mbti, snap.gender, snap.createdAt)
	if err != nil {
		return nil, err
	}
	for _, m := range snap.messages {
		session.AddMessage(m)
	}
	return session, nil
}
