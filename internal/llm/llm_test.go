// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/style-engine/pkg/types"
)

func TestWithTimeout_Expires(t *testing.T) {
	slow := BackendFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, err := WithTimeout(slow, 10*time.Millisecond).Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBackendUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "no response within 10ms")
}

func TestWithTimeout_CallerDeadline(t *testing.T) {
	slow := BackendFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := WithTimeout(slow, time.Hour).Complete(ctx, "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBackendUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "caller deadline expired")
	assert.NotContains(t, err.Error(), "no response within")
}

func TestWithTimeout_PassesThrough(t *testing.T) {
	fast := BackendFunc(func(_ context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})
	out, err := WithTimeout(fast, time.Second).Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out)

	rl := &types.RateLimitError{}
	failing := BackendFunc(func(context.Context, string) (string, error) { return "", rl })
	_, err = WithTimeout(failing, time.Second).Complete(context.Background(), "hi")
	assert.Same(t, rl, err)
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ok := BackendFunc(func(context.Context, string) (string, error) { return "abc", nil })
	_, err := WithLogging(ok, logger, "test").Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "backend call")
	assert.Contains(t, buf.String(), "response_bytes=3")

	buf.Reset()
	bad := BackendFunc(func(context.Context, string) (string, error) { return "", errors.New("boom") })
	_, err = WithLogging(bad, logger, "test").Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "backend call failed")
}

func TestNew(t *testing.T) {
	b, err := New(context.Background(), types.AIConfig{Provider: types.ProviderEcho}, nil)
	require.NoError(t, err)
	assert.NotNil(t, b)

	_, err = New(context.Background(), types.AIConfig{Provider: "mystery"}, nil)
	assert.ErrorContains(t, err, "unknown ai provider")

	_, err = New(context.Background(), types.AIConfig{Provider: types.ProviderClaude}, nil)
	assert.ErrorContains(t, err, "api key missing")

	_, err = New(context.Background(), types.AIConfig{Provider: types.ProviderOpenAI}, nil)
	assert.ErrorContains(t, err, "api key missing")
}

func TestEcho_Profile(t *testing.T) {
	prompt := "Analyze.\n<document>\nI love the sea. We sail every summer!\n\nMy boat is small.\n</document>"
	out, err := Echo{}.Complete(context.Background(), prompt)
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "first-person", got["voice"])
	assert.NotEmpty(t, got["tone"])
	assert.Contains(t, got["structure"], "2 paragraphs")
}

func TestEcho_Post(t *testing.T) {
	out, err := Echo{}.Complete(context.Background(), "Write a post.\nTopic: renewable energy\n")
	require.NoError(t, err)
	assert.Contains(t, out, "# renewable energy")
}

func TestEcho_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Echo{}.Complete(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
