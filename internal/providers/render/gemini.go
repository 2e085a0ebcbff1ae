package render

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"charforge-server/internal/domain"
)

// Gemini renders images through the Gemini API image models.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed renderer.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Render sends the prompt pair to the model and extracts the first inline
// image from the response. The Gemini image endpoint has no separate
// negative-prompt field, so the disallowed list travels as an instruction
// suffix.
func (g *Gemini) Render(ctx context.Context, positivePrompt, negativePrompt string) (*Result, error) {
	prompt := positivePrompt
	if negativePrompt != "" {
		prompt += "\n\nDo not include: " + negativePrompt
	}

	content := &genai.Content{
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{AspectRatio: "3:4"},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %v", domain.ErrProviderFailure, err)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			return &Result{
				Data:   part.InlineData.Data,
				Format: formatFromMIME(part.InlineData.MIMEType),
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: gemini: response contained no image data", domain.ErrProviderFailure)
}

func formatFromMIME(mime string) string {
	if idx := strings.LastIndex(mime, "/"); idx >= 0 && idx < len(mime)-1 {
		return mime[idx+1:]
	}
	return "png"
}

var _ Renderer = (*Gemini)(nil)
