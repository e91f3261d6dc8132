package memory

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/maumlog/maum-api/internal/domain"
)

// AnalysisRepository keeps one-shot consult histories in memory. Save assigns
// a ULID so records sort by creation time.
type AnalysisRepository struct {
	mu      sync.RWMutex
	records map[string]domain.ConsultHistory
}

func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{
		records: make(map[string]domain.ConsultHistory),
	}
}

func (r *AnalysisRepository) Save(ctx context.Context, history *domain.ConsultHistory) (*domain.ConsultHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if history.ID == "" {
		history.ID = ulid.Make().String()
	}
	r.records[history.ID] = *history
	return history, nil
}

// ListByUser returns the stored histories for a user, unordered.
func (r *AnalysisRepository) ListByUser(userID domain.UserID) []domain.ConsultHistory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.ConsultHistory
	for _, h := range r.records {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out
}
