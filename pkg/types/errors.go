// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"time"
)

// Pipeline errors. Callers match these with errors.Is.
var (
	ErrEmptyInput        = errors.New("input is empty after normalization")
	ErrEmptyTopic        = errors.New("topic is empty")
	ErrInvalidScope      = errors.New("scope is empty")
	ErrNoActiveProfile   = errors.New("no active style profile; analyze a document first")
	ErrDanglingReference = errors.New("artifact does not reference an active style profile")
	ErrArtifactExists    = errors.New("artifact already stored")
	ErrScopeBusy         = errors.New("another analyze or generate is in progress for this scope")
)

// Collaborator errors raised by document readers and generative backends.
var (
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrCorruptFile        = errors.New("document is corrupt or unreadable")
	ErrBackendUnavailable = errors.New("generative backend unavailable")
	ErrBackendAuth        = errors.New("generative backend rejected credentials")
)

// RateLimitError reports that the backend throttled the request.
// RetryAfter is zero when the backend gave no hint.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("generative backend rate limited; retry after %s", e.RetryAfter)
	}
	return "generative backend rate limited"
}

// ExtractionError reports that a style profile could not be extracted,
// either because the backend call failed or because its response had no
// parseable structure.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extracting style: %s: %v", e.Reason, e.Err)
	}
	return "extracting style: " + e.Reason
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// GenerationError reports that the backend failed to produce content.
type GenerationError struct {
	Topic string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating content for %q: %v", e.Topic, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
