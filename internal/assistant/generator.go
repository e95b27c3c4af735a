package assistant

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// GenAIGenerator generates text with Google's Gemini API.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

// NewGenAIGenerator creates a Gemini-backed generator.
func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIGenerator{client: client, model: model}, nil
}

// Model returns the model name requests are sent to.
func (g *GenAIGenerator) Model() string { return g.model }

func (g *GenAIGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("GenAI returned no text")
	}
	return text, nil
}

// Static is a Generator that always returns the same text or error.
type Static struct {
	Text string
	Err  error
}

// Offline is the generator used when no API key is configured.
var Offline Generator = Static{Err: ErrUnavailable}

func (s Static) Generate(context.Context, string, string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Text, nil
}
