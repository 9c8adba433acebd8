// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/style-engine/internal/httputil"
	"github.com/pdiddy/style-engine/pkg/types"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI calls the chat completions API through the official openai-go SDK.
// BaseURL in the config points it at any OpenAI-compatible gateway.
type OpenAI struct {
	Model     string
	MaxTokens int
	Opts      []option.RequestOption
}

// NewOpenAI builds an OpenAI backend from cfg. The API key is required.
func NewOpenAI(cfg types.AIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set ai.api_key or .secrets/openai-api-key")
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{Model: model, MaxTokens: cfg.MaxTokens, Opts: opts}, nil
}

// Complete sends prompt as a single user message.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	client := openai.NewClient(o.Opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if o.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.MaxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			var h http.Header
			if apiErr.Response != nil {
				h = apiErr.Response.Header
			}
			return "", httputil.Classify(apiErr.StatusCode, h, apiErr.Message)
		}
		return "", fmt.Errorf("%w: calling OpenAI API: %w", types.ErrBackendUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
