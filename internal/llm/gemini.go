// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"github.com/pdiddy/style-engine/internal/httputil"
	"github.com/pdiddy/style-engine/pkg/types"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini calls the Gemini API through the official genai client.
type Gemini struct {
	cli   *genai.Client
	model string
}

// NewGemini builds a Gemini backend from cfg. The API key is required.
func NewGemini(ctx context.Context, cfg types.AIConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key missing; set ai.api_key or .secrets/gemini-api-key")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{cli: cli, model: model}, nil
}

// Complete sends prompt as a single text part and joins the text parts of
// the first candidate.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", httputil.Classify(apiErr.Code, nil, apiErr.Message)
		}
		return "", fmt.Errorf("%w: calling Gemini API: %w", types.ErrBackendUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
