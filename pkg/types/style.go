// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by the style-memory pipeline:
// style profiles, generated artifacts, scopes, errors, and configuration.
package types

import (
	"strings"
	"time"
)

// NotAvailable is the sentinel stored in a StyleProfile field that the
// backend response did not supply or that failed validation.
const NotAvailable = "N/A"

// Scope identifies the session or user within which exactly one style
// profile is active at a time.
type Scope string

// DefaultScope is used by the CLI when no --scope flag is given.
const DefaultScope Scope = "default"

// Validate reports ErrInvalidScope when the scope is blank.
func (s Scope) Validate() error {
	if strings.TrimSpace(string(s)) == "" {
		return ErrInvalidScope
	}
	return nil
}

// StyleProfile is a structured summary of a document's writing style.
type StyleProfile struct {
	// ID identifies the profile. Artifacts refer to a profile by ID.
	ID string `json:"id" yaml:"id"`

	// Scope is the session or user that owns the profile. Set by the store.
	Scope Scope `json:"scope" yaml:"scope"`

	// Tone is a short descriptor such as "conversational" or "authoritative".
	Tone string `json:"tone" yaml:"tone"`

	// Voice is a short descriptor such as "first-person" or "instructional".
	Voice string `json:"voice" yaml:"voice"`

	// Structure describes paragraphing and organization patterns.
	Structure string `json:"structure" yaml:"structure"`

	// SourceExcerpt is a bounded prefix of the analyzed text, kept for traceability.
	SourceExcerpt string `json:"source_excerpt" yaml:"source_excerpt"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Partial returns the names of fields that hold the NotAvailable sentinel.
// A nil result means the extraction was complete.
func (p StyleProfile) Partial() []string {
	var missing []string
	if p.Tone == NotAvailable {
		missing = append(missing, "tone")
	}
	if p.Voice == NotAvailable {
		missing = append(missing, "voice")
	}
	if p.Structure == NotAvailable {
		missing = append(missing, "structure")
	}
	return missing
}

// Ref returns the identity other records use to point at this profile.
func (p StyleProfile) Ref() ProfileRef {
	return ProfileRef{ID: p.ID, CreatedAt: p.CreatedAt}
}

// ProfileRef points at a StyleProfile by identity and timestamp.
type ProfileRef struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// GeneratedArtifact is a piece of text generated under a style profile.
// Artifacts are immutable once stored.
type GeneratedArtifact struct {
	ID    string `json:"id" yaml:"id"`
	Scope Scope  `json:"scope" yaml:"scope"`

	// Topic is the user-supplied prompt topic.
	Topic string `json:"topic" yaml:"topic"`

	// Content is the full generated text.
	Content string `json:"content" yaml:"content"`

	// StyleProfileRef identifies the profile the content was conditioned on.
	StyleProfileRef ProfileRef `json:"style_profile_ref" yaml:"style_profile_ref"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
