package llm

import (
	"fmt"
	"strings"

	"github.com/maumlog/maum-api/internal/domain"
)

const counselorSystemPrompt = `당신은 10년 경력의 MBTI 전문 상담사입니다.
따뜻하고 공감적이며, 각 MBTI 유형의 특성을 깊이 이해하고 있습니다.

상담 원칙:
- 사용자와 같은 언어(한국어)로 답합니다.
- 반말을 사용해 친근하고 편안한 분위기를 만듭니다.
- 2~5문장으로 간결하게 답합니다.
- 판단하거나 훈계하지 않습니다.
- 의학적/정신과적 진단은 하지 않으며, 위기 상황에서는 전문 기관의 도움을 권합니다.`

var energyGuide = map[byte]string{
	'E': "활발하고 친근하게, 에너지 넘치는 톤으로",
	'I': "차분하고 부드럽게, 편안한 분위기를 만드는 톤으로",
}

var informationGuide = map[byte]string{
	'S': "구체적이고 실용적인 표현을 사용하여",
	'N': "개방적이고 가능성에 초점을 맞춘 표현을 사용하여",
}

var decisionGuide = map[byte]string{
	'T': "논리적이고 명확하게, 문제 해결 지향적으로",
	'F': "공감적이고 따뜻하게, 감정을 이해하는 태도로",
}

var lifestyleGuide = map[byte]string{
	'J': "체계적이고 목표 지향적인 대화를 이끌며",
	'P': "유연하고 탐색적인 대화를 이끌며",
}

// toneGuide renders the four per-axis tone instructions for an MBTI code.
func toneGuide(mbti domain.MBTI) string {
	return fmt.Sprintf(
		"- E/I (%c): %s\n- S/N (%c): %s\n- T/F (%c): %s\n- J/P (%c): %s",
		mbti.Energy(), energyGuide[mbti.Energy()],
		mbti.Information(), informationGuide[mbti.Information()],
		mbti.Decision(), decisionGuide[mbti.Decision()],
		mbti.Lifestyle(), lifestyleGuide[mbti.Lifestyle()],
	)
}

// BuildGreetingPrompt asks for the opening message of a new session, tuned to
// the user's MBTI dimensions.
func BuildGreetingPrompt(mbti domain.MBTI, gender domain.Gender) string {
	return fmt.Sprintf(`사용자가 MBTI 관계 상담을 시작합니다.

사용자 정보:
- MBTI: %s
- 성별: %s

이 사용자의 MBTI 특성에 맞춰 첫 인사말을 생성해주세요.

MBTI 특성 고려사항:
%s

요구사항:
1. 2-3문장으로 간결하게
2. 사용자의 MBTI 유형을 언급하며 공감 표현
3. "어떤 관계 고민이 있으세요?" 같은 자연스러운 질문으로 마무리
4. 이모지는 최대 1-2개만 사용
5. 반말 사용

인사말을 생성해주세요:`, mbti, gender, toneGuide(mbti))
}

// turnStrategy selects the counseling stance for a given user turn (1-based).
// The final turn closes the conversation and must not ask further questions.
func turnStrategy(turn int) string {
	switch {
	case turn <= 1:
		return "첫 턴: 고민에 충분히 공감하고, 상황을 파악하는 질문을 1개 던진다."
	case turn <= 3:
		return "탐색 턴: 상황의 맥락과 패턴을 함께 짚어보고, 한 겹 더 깊이 들어가는 질문을 1개 던진다."
	case turn == 4:
		return "정리 턴: 지금까지의 대화를 바탕으로 현실적인 제안을 1-2가지 제시하고, 마지막 확인 질문을 1개 던진다."
	default:
		return "마지막 턴: 전체 대화를 요약하고 따뜻한 응원으로 상담을 마무리한다. 절대 추가 질문을 하지 않는다."
	}
}

// BuildResponseSystemPrompt is the per-call system instruction for a consult
// reply: persona, MBTI tone guide, and the strategy for the current turn.
func BuildResponseSystemPrompt(session *domain.ConsultSession) string {
	var b strings.Builder
	b.WriteString(counselorSystemPrompt)
	b.WriteString("\n\n사용자 정보:\n")
	fmt.Fprintf(&b, "- MBTI: %s\n- 성별: %s\n\n", session.MBTI(), session.Gender())
	b.WriteString("톤 가이드:\n")
	b.WriteString(toneGuide(session.MBTI()))
	b.WriteString("\n\n이번 턴 전략:\n")
	b.WriteString(turnStrategy(session.UserTurnCount()))
	return b.String()
}
