package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/maumlog/maum-api/internal/domain"
)

const analysisSystemPrompt = `[ROLE]
You are the "Analysis Agent" for a Korean counseling assistant service.

Your job:
- Read the user's Korean text about their concern or problem.
- Analyze the situation.
- Output a STRICT JSON object that captures the key structure of the concern.
- Do NOT give advice. Only analyze and classify.

[OUTPUT FORMAT]
You MUST output a valid JSON object only.
No extra text, no explanation, no markdown code block.

Use this exact schema:

{
  "summary": "One-line summary of the user's concern in Korean.",
  "category": "relationship | family | work | career | money | mental | study | self_growth | health | etc",
  "user_role": "student | employee | manager | job_seeker | parent | lover | friend | etc",
  "counterparty": "lover | friend | coworker | boss | family | none | etc",
  "emotion": ["angry", "sad", "anxious", "guilty", "confused", "lonely", "tired", "etc"],
  "urgency": 1,
  "main_question": "The core question the user really wants to ask, in Korean.",
  "constraints": ["List of constraints the user mentioned, in Korean."],
  "keywords": ["Important keywords extracted from the text, in Korean."],
  "suicide_risk": false
}

[DETAILED INSTRUCTIONS]
- "urgency": Integer 1~5. 5 = very urgent / dangerous, 1 = no time pressure.
- "emotion": Up to 3 emotions in English from the list that best match the text.
- "suicide_risk": true if there are any hints of self-harm or suicide. Otherwise false.
- If something is not explicitly stated, make a reasonable guess OR use a generic value ("etc", "none").
- Output MUST be valid JSON. No comments. No trailing commas.`

const counselingSystemPrompt = `[ROLE]
You are the "Counseling Agent" for a Korean counseling assistant service.

Your job:
- Read the original Korean user text and the analysis JSON from the Analysis Agent.
- Give warm, practical, and structured advice in Korean.
- You are not a doctor or lawyer. You are a friendly but realistic counseling coach.

[STYLE]
- Use natural, conversational Korean.
- Avoid vague platitudes. Give concrete, actionable suggestions.
- Never shame or blame the user.

[OUTPUT FORMAT]
Respond ONLY in Korean, with this structure:
1. One-line summary of the situation
2. Empathy with the current emotions (2~4 sentences)
3. Key aspects of the situation (3 bullet points)
4. 2~3 realistic action strategies, each with concrete steps
5. 1~2 example messages the user could actually send
6. One encouraging closing sentence

[SUICIDE / SELF-HARM CASE]
- If analysis suicide_risk is true: emphasize emotional support and safety,
  suggest contacting professional help or emergency services first, and never
  provide any details or methods of self-harm.

[IMPORTANT]
- Do NOT output JSON. Do NOT show the analysis JSON itself.`

// GeminiAnalyzer implements domain.Analyzer: one low-temperature strict-JSON
// classification call per concern text.
type GeminiAnalyzer struct {
	client    *genai.Client
	modelName string
}

func NewGeminiAnalyzer(client *genai.Client, modelName string) *GeminiAnalyzer {
	return &GeminiAnalyzer{client: client, modelName: modelName}
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, text string) (*domain.ConcernAnalysis, error) {
	temp := float32(0.2)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(analysisSystemPrompt, genai.RoleUser),
		Temperature:       &temp,
		ResponseMIMEType:  "application/json",
	}

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	res, err := a.client.Models.GenerateContent(ctx, a.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini analyze: %w", err)
	}

	raw := strings.TrimSpace(res.Text())
	// Strip a markdown fence in case the model ignored the MIME type hint.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var analysis domain.ConcernAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("analysis agent returned invalid JSON: %w", err)
	}
	return &analysis, nil
}

// GeminiCounselingService implements domain.CounselingGenerator for the
// one-shot consult flow.
type GeminiCounselingService struct {
	client    *genai.Client
	modelName string
}

func NewGeminiCounselingService(client *genai.Client, modelName string) *GeminiCounselingService {
	return &GeminiCounselingService{client: client, modelName: modelName}
}

func (s *GeminiCounselingService) Generate(ctx context.Context, text string, analysis *domain.ConcernAnalysis) (string, error) {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}

	userPrompt := fmt.Sprintf("사용자 입력:\n%s\n\n분석 JSON:\n%s", text, analysisJSON)

	temp := float32(0.7)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(counselingSystemPrompt, genai.RoleUser),
		Temperature:       &temp,
	}

	contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}

	res, err := s.client.Models.GenerateContent(ctx, s.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini counseling: %w", err)
	}

	answer := res.Text()
	if answer == "" {
		return "", fmt.Errorf("gemini returned empty counseling answer")
	}
	return answer, nil
}
