package providers

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini generates text through the Google Gemini API.
type Gemini struct {
	apiKey string
}

// NewGemini returns a Gemini provider using the given API key.
func NewGemini(apiKey string) *Gemini {
	return &Gemini{apiKey: apiKey}
}

// Generate runs one content generation call against Gemini.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini API key not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(req.Model)
	model.SetTemperature(float32(req.Temperature))

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}
