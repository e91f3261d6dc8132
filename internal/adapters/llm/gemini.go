package llm

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"

	"github.com/maumlog/maum-api/internal/domain"
)

// NewVertexClient creates the shared genai client backed by Vertex AI.
func NewVertexClient(ctx context.Context, projectID, location string) (*genai.Client, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("projectID and location are required for Vertex AI")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}
	return client, nil
}

// GeminiCounselor implements domain.Counselor on Vertex AI (Gemini).
type GeminiCounselor struct {
	client    *genai.Client
	modelName string
}

func NewGeminiCounselor(client *genai.Client, modelName string) *GeminiCounselor {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &GeminiCounselor{client: client, modelName: modelName}
}

// GenerateGreeting implements domain.Counselor.
func (g *GeminiCounselor) GenerateGreeting(ctx context.Context, mbti domain.MBTI, gender domain.Gender) (string, error) {
	temp := float32(0.7)
	outputTokens := int32(256)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(counselorSystemPrompt, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   outputTokens,
	}

	contents := []*genai.Content{
		genai.NewContentFromText(BuildGreetingPrompt(mbti, gender), genai.RoleUser),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate greeting: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty greeting")
	}
	return text, nil
}

// GenerateResponse implements domain.Counselor.
func (g *GeminiCounselor) GenerateResponse(ctx context.Context, session *domain.ConsultSession, userMessage string) (string, error) {
	contents, cfg := g.buildRequest(session)

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

// GenerateResponseStream implements domain.Counselor.
func (g *GeminiCounselor) GenerateResponseStream(ctx context.Context, session *domain.ConsultSession, userMessage string) iter.Seq2[string, error] {
	contents, cfg := g.buildRequest(session)

	return func(yield func(string, error) bool) {
		for res, err := range g.client.Models.GenerateContentStream(ctx, g.modelName, contents, cfg) {
			if err != nil {
				yield("", fmt.Errorf("gemini stream: %w", err))
				return
			}
			text := res.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// buildRequest maps the session's ordered history to Gemini contents. The log
// already ends with the newest user message, so nothing is re-appended here.
func (g *GeminiCounselor) buildRequest(session *domain.ConsultSession) ([]*genai.Content, *genai.GenerateContentConfig) {
	var contents []*genai.Content
	for _, m := range session.Messages() {
		var role genai.Role = genai.RoleUser
		if m.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	temp := float32(0.7)
	topP := float32(0.9)
	outputTokens := int32(8192)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(BuildResponseSystemPrompt(session), genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   outputTokens,
	}

	return contents, cfg
}
