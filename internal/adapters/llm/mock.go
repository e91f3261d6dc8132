package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/maumlog/maum-api/internal/domain"
)

// FakeCounselor is a deterministic domain.Counselor for local mode and tests.
// Responses echo the user message; the final turn closes without a question.
type FakeCounselor struct{}

func NewFakeCounselor() *FakeCounselor {
	return &FakeCounselor{}
}

func (f *FakeCounselor) GenerateGreeting(ctx context.Context, mbti domain.MBTI, gender domain.Gender) (string, error) {
	return fmt.Sprintf("안녕! 나는 마음로그 상담사야. %s 유형이구나. 어떤 관계 고민이 있어?", mbti), nil
}

func (f *FakeCounselor) GenerateResponse(ctx context.Context, session *domain.ConsultSession, userMessage string) (string, error) {
	if session.UserTurnCount() >= domain.MaxUserTurns {
		return "오늘 이야기 잘 들었어. 지금까지 나눈 고민 응원할게. 상담을 마무리할게.", nil
	}
	return fmt.Sprintf("그렇구나, %q라고 했지. 조금 더 이야기해 줄래?", userMessage), nil
}

func (f *FakeCounselor) GenerateResponseStream(ctx context.Context, session *domain.ConsultSession, userMessage string) iter.Seq2[string, error] {
	full, _ := f.GenerateResponse(ctx, session, userMessage)
	fragments := strings.SplitAfter(full, " ")
	return func(yield func(string, error) bool) {
		for _, fr := range fragments {
			if !yield(fr, nil) {
				return
			}
		}
	}
}

// FakeAnalyzer implements domain.Analyzer with a canned classification.
type FakeAnalyzer struct{}

func NewFakeAnalyzer() *FakeAnalyzer {
	return &FakeAnalyzer{}
}

func (f *FakeAnalyzer) Analyze(ctx context.Context, text string) (*domain.ConcernAnalysis, error) {
	return &domain.ConcernAnalysis{
		Summary:      "고민 요약: " + firstLine(text),
		Category:     "relationship",
		UserRole:     "etc",
		Counterparty: "none",
		Emotions:     []string{"confused"},
		Urgency:      2,
		MainQuestion: "어떻게 하면 좋을까?",
	}, nil
}

// FakeCounselingService implements domain.CounselingGenerator.
type FakeCounselingService struct{}

func NewFakeCounselingService() *FakeCounselingService {
	return &FakeCounselingService{}
}

func (f *FakeCounselingService) Generate(ctx context.Context, text string, analysis *domain.ConcernAnalysis) (string, error) {
	return fmt.Sprintf("상황 요약: %s\n공감의 한마디와 함께, 작은 행동부터 시작해보자.", analysis.Summary), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
