package domain

import (
	"fmt"
	"time"
)

// ConcernAnalysis is the structured classification of a one-shot consult text,
// produced by the analysis capability as strict JSON.
type ConcernAnalysis struct {
	Summary      string   `json:"summary"`
	Category     string   `json:"category"`
	UserRole     string   `json:"user_role"`
	Counterparty string   `json:"counterparty"`
	Emotions     []string `json:"emotion"`
	Urgency      int      `json:"urgency"`
	MainQuestion string   `json:"main_question"`
	Constraints  []string `json:"constraints"`
	Keywords     []string `json:"keywords"`
	SuicideRisk  bool     `json:"suicide_risk"`
}

// Validate checks the fields the counseling stage depends on.
func (a *ConcernAnalysis) Validate() error {
	if a.Summary == "" {
		return fmt.Errorf("%w: analysis summary must not be empty", ErrValidation)
	}
	if a.Category == "" {
		return fmt.Errorf("%w: analysis category must not be empty", ErrValidation)
	}
	if a.Urgency < 1 || a.Urgency > 5 {
		return fmt.Errorf("%w: analysis urgency must be 1..5, got %d", ErrValidation, a.Urgency)
	}
	return nil
}

// ConsultHistory is one persisted record of the one-shot consult flow:
// the original text, its analysis, and the generated answer.
type ConsultHistory struct {
	ID           string
	UserID       UserID
	OriginalText string
	Analysis     ConcernAnalysis
	Answer       string
	CreatedAt    time.Time
}
