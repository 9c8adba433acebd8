// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/style-engine/pkg/types"
)

func withClaudeServer(t *testing.T, h http.HandlerFunc) *Claude {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	orig := claudeAPIURL
	claudeAPIURL = ts.URL
	t.Cleanup(func() { claudeAPIURL = orig })

	c, err := NewClaude(types.AIConfig{APIKey: "test-key", Model: "test-model"})
	require.NoError(t, err)
	c.Client = ts.Client()
	return c
}

func TestClaude_Complete(t *testing.T) {
	c := withClaudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req claudeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, types.DefaultMaxTokens, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "hello", req.Messages[0].Content)

		json.NewEncoder(w).Encode(claudeResponse{Content: []claudeContent{
			{Type: "text", Text: "part one, "},
			{Type: "tool_use"},
			{Type: "text", Text: "part two"},
		}})
	})

	out, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "part one, part two", out)
}

func TestClaude_RateLimited(t *testing.T) {
	c := withClaudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Complete(context.Background(), "hello")
	var rl *types.RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 12.0, rl.RetryAfter.Seconds())
}

func TestClaude_ServerError(t *testing.T) {
	calls := 0
	c := withClaudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := c.Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, types.ErrBackendUnavailable)
	assert.Equal(t, 1, calls, "backend errors are not retried")
}

func TestClaude_MalformedBody(t *testing.T) {
	c := withClaudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := c.Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, types.ErrBackendUnavailable)
}

func TestClaude_Unreachable(t *testing.T) {
	orig := claudeAPIURL
	claudeAPIURL = "http://127.0.0.1:1"
	t.Cleanup(func() { claudeAPIURL = orig })

	c, err := NewClaude(types.AIConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, defaultClaudeModel, c.Model)

	_, err = c.Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, types.ErrBackendUnavailable)
}
