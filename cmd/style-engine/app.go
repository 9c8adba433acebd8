// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/pdiddy/style-engine/internal/document"
	"github.com/pdiddy/style-engine/internal/generate"
	"github.com/pdiddy/style-engine/internal/llm"
	"github.com/pdiddy/style-engine/internal/memory"
	"github.com/pdiddy/style-engine/internal/session"
	"github.com/pdiddy/style-engine/internal/style"
)

// app holds the components one command invocation needs.
type app struct {
	store    memory.Store
	pipeline *session.Pipeline
}

// openApp opens the configured store. With withBackend set it also builds
// the generative backend, which may require an API key.
func openApp(ctx context.Context, withBackend bool) (*app, error) {
	store, err := memory.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	if !withBackend {
		return &app{store: store, pipeline: session.New(nil, nil, nil, store, logger)}, nil
	}

	backend, err := llm.New(ctx, cfg.AI, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	p := session.New(
		style.New(backend, cfg.Style, logger),
		generate.New(backend, store, logger),
		document.NewReader(document.DetectMarkitdown),
		store,
		logger,
	)
	return &app{store: store, pipeline: p}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
