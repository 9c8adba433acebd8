// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package memory persists style profiles and generated artifacts.
//
// Each scope has one active style profile. Profiles are stored as an
// append-only sequence with an explicit active pointer per scope, so
// writing a new profile supersedes the previous one without mutating it.
// Artifacts are append-only and always reference a stored profile.
package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/style-engine/pkg/types"
)

// Store is the persistence contract of the style-memory pipeline. Every
// method takes an explicit scope; there is no implicit current session.
type Store interface {
	// WriteStyleProfile stores profile and makes it the active profile for
	// scope in one atomic step.
	WriteStyleProfile(ctx context.Context, scope types.Scope, profile types.StyleProfile) error

	// ReadActiveStyleProfile returns the most recently written profile for
	// scope. ok is false when the scope has no profile yet.
	ReadActiveStyleProfile(ctx context.Context, scope types.Scope) (profile types.StyleProfile, ok bool, err error)

	// WriteArtifact appends artifact. It fails with types.ErrDanglingReference
	// when scope has no active profile, the referenced profile is not
	// stored in scope, or its CreatedAt differs from the stored profile's,
	// and with types.ErrArtifactExists on a duplicate ID.
	// A failed call writes nothing.
	WriteArtifact(ctx context.Context, scope types.Scope, artifact types.GeneratedArtifact) error

	// ListArtifacts returns artifacts for scope ordered by creation time,
	// oldest first.
	ListArtifacts(ctx context.Context, scope types.Scope, opts ListOptions) ([]types.GeneratedArtifact, error)

	Close() error
}

// Searcher is implemented by stores that index artifact content.
type Searcher interface {
	SearchArtifacts(ctx context.Context, scope types.Scope, query string, limit int) ([]types.GeneratedArtifact, error)
}

// ListOptions filters ListArtifacts.
type ListOptions struct {
	// Topic keeps only artifacts whose topic equals Topic (case-insensitive).
	Topic string

	// Limit keeps only the newest Limit artifacts, still oldest first.
	// Zero means no limit.
	Limit int
}

// ErrSearchUnsupported is returned when the configured store has no
// content index.
var ErrSearchUnsupported = errors.New("artifact search requires the sqlite store")

// Open builds the store selected by cfg.Driver, wrapped in an active
// profile cache when cfg.CacheSize is positive.
func Open(cfg types.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case types.DriverSQLite, "":
		path := cfg.Path
		if path == "" {
			path = types.DefaultStorePath
		}
		s, err = NewSQLiteStore(path)
	case types.DriverRedis:
		s, err = NewRedisStore(cfg.RedisAddr, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown store driver %q: use sqlite or redis", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheSize > 0 {
		cached, err := Cached(s, cfg.CacheSize)
		if err != nil {
			s.Close()
			return nil, err
		}
		return cached, nil
	}
	return s, nil
}

// checkProfile validates the arguments of WriteStyleProfile.
func checkProfile(scope types.Scope, p types.StyleProfile) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		return errors.New("style profile has no id")
	}
	return nil
}

// checkArtifact validates the arguments of WriteArtifact.
func checkArtifact(scope types.Scope, a types.GeneratedArtifact) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if a.ID == "" {
		return errors.New("artifact has no id")
	}
	if a.StyleProfileRef.ID == "" {
		return fmt.Errorf("%w: artifact %s has no style profile reference", types.ErrDanglingReference, a.ID)
	}
	return nil
}

// applyLimit keeps the newest limit entries of an oldest-first slice.
func applyLimit(arts []types.GeneratedArtifact, limit int) []types.GeneratedArtifact {
	if limit > 0 && len(arts) > limit {
		return arts[len(arts)-limit:]
	}
	return arts
}
