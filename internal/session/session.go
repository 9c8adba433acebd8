// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session wires normalization, style extraction, storage, and
// generation into the two user actions: analyze a document and generate
// content. Calls for the same scope never overlap; a second call while one
// is running fails fast with types.ErrScopeBusy.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pdiddy/style-engine/internal/document"
	"github.com/pdiddy/style-engine/internal/generate"
	"github.com/pdiddy/style-engine/internal/memory"
	"github.com/pdiddy/style-engine/internal/normalize"
	"github.com/pdiddy/style-engine/pkg/types"
)

// State is the per-scope lifecycle.
type State string

const (
	StateNoProfile    State = "no_profile"
	StateProfileReady State = "profile_ready"
)

// Status summarizes a scope for display.
type Status struct {
	Scope   types.Scope         `json:"scope"`
	State   State               `json:"state"`
	Profile *types.StyleProfile `json:"profile,omitempty"`
}

// Extractor derives a style profile from normalized text.
type Extractor interface {
	ExtractStyle(ctx context.Context, text string) (types.StyleProfile, error)
}

// Generator produces and stores style-conditioned content.
type Generator interface {
	Generate(ctx context.Context, scope types.Scope, topic string) (generate.Result, error)
}

// Pipeline runs the analyze and generate actions against one store.
type Pipeline struct {
	extractor Extractor
	generator Generator
	reader    *document.Reader
	store     memory.Store
	logger    *slog.Logger

	mu    sync.Mutex
	locks map[types.Scope]*sync.Mutex
}

// New creates a Pipeline. reader may be nil when only raw text is analyzed.
func New(extractor Extractor, generator Generator, reader *document.Reader, store memory.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: extractor,
		generator: generator,
		reader:    reader,
		store:     store,
		logger:    logger,
		locks:     make(map[types.Scope]*sync.Mutex),
	}
}

// acquire takes the scope's lock without waiting. The returned func
// releases it.
func (p *Pipeline) acquire(scope types.Scope) (func(), error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	l, ok := p.locks[scope]
	if !ok {
		l = &sync.Mutex{}
		p.locks[scope] = l
	}
	p.mu.Unlock()

	if !l.TryLock() {
		return nil, fmt.Errorf("%w: scope %q", types.ErrScopeBusy, scope)
	}
	return l.Unlock, nil
}

// Analyze normalizes raw, extracts its style, and makes the result the
// scope's active profile. On any error the previous profile stays active.
func (p *Pipeline) Analyze(ctx context.Context, scope types.Scope, raw string) (types.StyleProfile, error) {
	release, err := p.acquire(scope)
	if err != nil {
		return types.StyleProfile{}, err
	}
	defer release()
	return p.analyze(ctx, scope, raw)
}

// AnalyzeDocument reads the named document and analyzes its text.
func (p *Pipeline) AnalyzeDocument(ctx context.Context, scope types.Scope, name string, data []byte) (types.StyleProfile, error) {
	if p.reader == nil {
		return types.StyleProfile{}, fmt.Errorf("%w: no document reader configured", types.ErrUnsupportedFormat)
	}
	release, err := p.acquire(scope)
	if err != nil {
		return types.StyleProfile{}, err
	}
	defer release()

	text, err := p.reader.Extract(ctx, name, data)
	if err != nil {
		return types.StyleProfile{}, fmt.Errorf("reading %s: %w", name, err)
	}
	return p.analyze(ctx, scope, text)
}

func (p *Pipeline) analyze(ctx context.Context, scope types.Scope, raw string) (types.StyleProfile, error) {
	text, err := normalize.Normalize(raw)
	if err != nil {
		return types.StyleProfile{}, err
	}

	profile, err := p.extractor.ExtractStyle(ctx, text)
	if err != nil {
		return types.StyleProfile{}, err
	}

	if err := p.store.WriteStyleProfile(ctx, scope, profile); err != nil {
		return types.StyleProfile{}, fmt.Errorf("storing style profile: %w", err)
	}
	profile.Scope = scope

	p.logger.InfoContext(ctx, "style profile stored",
		"scope", scope, "profile", profile.ID, "partial", profile.Partial())
	return profile, nil
}

// Generate produces content about topic under the scope's active profile.
// The scope stays locked from the profile read until the artifact is
// written, so a concurrent analyze cannot replace the profile in between.
func (p *Pipeline) Generate(ctx context.Context, scope types.Scope, topic string) (generate.Result, error) {
	release, err := p.acquire(scope)
	if err != nil {
		return generate.Result{}, err
	}
	defer release()
	return p.generator.Generate(ctx, scope, topic)
}

// Status reports the scope's state and active profile.
func (p *Pipeline) Status(ctx context.Context, scope types.Scope) (Status, error) {
	if err := scope.Validate(); err != nil {
		return Status{}, err
	}
	profile, ok, err := p.store.ReadActiveStyleProfile(ctx, scope)
	if err != nil {
		return Status{}, fmt.Errorf("reading active profile: %w", err)
	}
	st := Status{Scope: scope, State: StateNoProfile}
	if ok {
		st.State = StateProfileReady
		st.Profile = &profile
	}
	return st, nil
}

// State reports only the scope's lifecycle state.
func (p *Pipeline) State(ctx context.Context, scope types.Scope) (State, error) {
	st, err := p.Status(ctx, scope)
	if err != nil {
		return "", err
	}
	return st.State, nil
}
