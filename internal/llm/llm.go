// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides the generative backends the style extractor and the
// generator call. Every backend turns one prompt into one completion; the
// pipeline never retries a failed call.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/style-engine/pkg/types"
)

// Backend abstracts the generative model so tests can supply a mock.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f BackendFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// New builds the backend selected by cfg.Provider, bounded by cfg.Timeout
// and logged through logger.
func New(ctx context.Context, cfg types.AIConfig, logger *slog.Logger) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Provider {
	case types.ProviderClaude, "":
		b, err = NewClaude(cfg)
	case types.ProviderOpenAI:
		b, err = NewOpenAI(cfg)
	case types.ProviderGemini:
		b, err = NewGemini(ctx, cfg)
	case types.ProviderEcho:
		b = Echo{}
	default:
		return nil, fmt.Errorf("unknown ai provider %q: use claude, openai, gemini, or echo", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = types.DefaultTimeout
	}
	name := string(cfg.Provider)
	if name == "" {
		name = string(types.ProviderClaude)
	}
	return WithLogging(WithTimeout(b, timeout), logger, name), nil
}

// WithTimeout bounds every call to b by d so a hung backend cannot stall
// the session. A call that runs past d fails with an error wrapping both
// types.ErrBackendUnavailable and context.DeadlineExceeded.
func WithTimeout(b Backend, d time.Duration) Backend {
	return BackendFunc(func(parent context.Context, prompt string) (string, error) {
		ctx, cancel := context.WithTimeout(parent, d)
		defer cancel()

		out, err := b.Complete(ctx, prompt)
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, types.ErrBackendUnavailable) {
			// The caller's own deadline may have fired before d.
			if parent.Err() != nil {
				return "", fmt.Errorf("%w: caller deadline expired: %w", types.ErrBackendUnavailable, parent.Err())
			}
			return "", fmt.Errorf("%w: no response within %s: %w", types.ErrBackendUnavailable, d, context.DeadlineExceeded)
		}
		return out, err
	})
}

// WithLogging records prompt size, response size, and latency for every
// call at debug level, and failures at warn level.
func WithLogging(b Backend, logger *slog.Logger, name string) Backend {
	if logger == nil {
		return b
	}
	return BackendFunc(func(ctx context.Context, prompt string) (string, error) {
		start := time.Now()
		out, err := b.Complete(ctx, prompt)
		elapsed := time.Since(start)
		if err != nil {
			logger.WarnContext(ctx, "backend call failed",
				"backend", name, "prompt_bytes", len(prompt), "elapsed", elapsed, "error", err)
			return "", err
		}
		logger.DebugContext(ctx, "backend call",
			"backend", name, "prompt_bytes", len(prompt), "response_bytes", len(out), "elapsed", elapsed)
		return out, nil
	})
}
