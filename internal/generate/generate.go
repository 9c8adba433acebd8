// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate produces new content conditioned on the active style
// profile of a scope and records it as an artifact.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/style-engine/internal/llm"
	"github.com/pdiddy/style-engine/pkg/types"
)

// Store is the part of the memory store the generator uses.
type Store interface {
	ReadActiveStyleProfile(ctx context.Context, scope types.Scope) (types.StyleProfile, bool, error)
	WriteArtifact(ctx context.Context, scope types.Scope, artifact types.GeneratedArtifact) error
}

// Result is the outcome of a successful generation. PersistErr is set
// when the content was produced but could not be stored; the content is
// still returned so the caller can show it.
type Result struct {
	Artifact   types.GeneratedArtifact
	PersistErr error
}

// Generator renders style-conditioned prompts and stores the output.
type Generator struct {
	backend llm.Backend
	store   Store
	logger  *slog.Logger

	now   func() time.Time
	newID func() string
}

// New creates a Generator.
func New(backend llm.Backend, store Store, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		backend: backend,
		store:   store,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// Generate writes content about topic in the style of scope's active
// profile. It makes at most one backend call and never retries.
//
// Errors: types.ErrEmptyTopic before any call, types.ErrNoActiveProfile
// when the scope has no profile (no backend call), and
// *types.GenerationError when the backend fails or returns nothing. In
// every error case no artifact is written.
func (g *Generator) Generate(ctx context.Context, scope types.Scope, topic string) (Result, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Result{}, types.ErrEmptyTopic
	}
	if err := scope.Validate(); err != nil {
		return Result{}, err
	}

	profile, ok, err := g.store.ReadActiveStyleProfile(ctx, scope)
	if err != nil {
		return Result{}, fmt.Errorf("reading active profile: %w", err)
	}
	if !ok {
		return Result{}, types.ErrNoActiveProfile
	}

	prompt, err := renderPrompt(profile, topic)
	if err != nil {
		return Result{}, fmt.Errorf("rendering prompt: %w", err)
	}

	content, err := g.backend.Complete(ctx, prompt)
	if err != nil {
		return Result{}, &types.GenerationError{Topic: topic, Err: err}
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Result{}, &types.GenerationError{Topic: topic, Err: errors.New("backend returned no content")}
	}

	artifact := types.GeneratedArtifact{
		ID:              g.newID(),
		Scope:           scope,
		Topic:           topic,
		Content:         content,
		StyleProfileRef: profile.Ref(),
		CreatedAt:       g.now(),
	}

	res := Result{Artifact: artifact}
	if err := g.store.WriteArtifact(ctx, scope, artifact); err != nil {
		g.logger.WarnContext(ctx, "generated content not stored",
			"scope", scope, "artifact", artifact.ID, "error", err)
		res.PersistErr = fmt.Errorf("storing artifact: %w", err)
	}
	return res, nil
}
