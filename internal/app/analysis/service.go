package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/maumlog/maum-api/internal/domain"
	"github.com/maumlog/maum-api/internal/observability"
)

// Service runs the one-shot consult flow as a two-stage pipeline: classify the
// concern text, then generate structured advice conditioned on the analysis.
// Every run is recorded as a ConsultHistory.
type Service struct {
	analyzer  domain.Analyzer
	generator domain.CounselingGenerator
	histories domain.AnalysisRepository
	now       func() time.Time
}

func NewService(
	analyzer domain.Analyzer,
	generator domain.CounselingGenerator,
	histories domain.AnalysisRepository,
) *Service {
	return &Service{
		analyzer:  analyzer,
		generator: generator,
		histories: histories,
		now:       time.Now,
	}
}

type Result struct {
	Analysis *domain.ConcernAnalysis
	Answer   string
}

func (s *Service) Consult(ctx context.Context, userID domain.UserID, text string) (*Result, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: consult text must not be empty", domain.ErrValidation)
	}

	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	log.Info("one-shot consult started")

	start := s.now()
	concern, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		log.Error("analysis stage failed", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrCapability, err)
	}
	if err := concern.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCapability, err)
	}
	log.Info("analysis stage done",
		"category", concern.Category,
		"urgency", concern.Urgency,
		"elapsed_ms", time.Since(start).Milliseconds())

	answer, err := s.generator.Generate(ctx, text, concern)
	if err != nil {
		log.Error("counseling stage failed", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrCapability, err)
	}

	history := &domain.ConsultHistory{
		UserID:       userID,
		OriginalText: text,
		Analysis:     *concern,
		Answer:       answer,
		CreatedAt:    s.now(),
	}
	if _, err := s.histories.Save(ctx, history); err != nil {
		log.Error("failed to save consult history", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	log.Info("one-shot consult completed")

	return &Result{Analysis: concern, Answer: answer}, nil
}
