// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScopeValidate(t *testing.T) {
	assert.NoError(t, Scope("alice").Validate())
	assert.ErrorIs(t, Scope("").Validate(), ErrInvalidScope)
	assert.ErrorIs(t, Scope("  \t").Validate(), ErrInvalidScope)
}

func TestStyleProfilePartial(t *testing.T) {
	tests := []struct {
		name    string
		profile StyleProfile
		want    []string
	}{
		{
			name:    "complete",
			profile: StyleProfile{Tone: "casual", Voice: "first-person", Structure: "short paragraphs"},
			want:    nil,
		},
		{
			name:    "structure missing",
			profile: StyleProfile{Tone: "casual", Voice: "first-person", Structure: NotAvailable},
			want:    []string{"structure"},
		},
		{
			name:    "all missing",
			profile: StyleProfile{Tone: NotAvailable, Voice: NotAvailable, Structure: NotAvailable},
			want:    []string{"tone", "voice", "structure"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.Partial())
		})
	}
}

func TestStyleProfileRef(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := StyleProfile{ID: "p-1", CreatedAt: at, Tone: "dry"}
	assert.Equal(t, ProfileRef{ID: "p-1", CreatedAt: at}, p.Ref())
}

func TestErrorsUnwrap(t *testing.T) {
	ee := &ExtractionError{Reason: "backend call failed", Err: ErrBackendUnavailable}
	assert.ErrorIs(t, ee, ErrBackendUnavailable)
	assert.Contains(t, ee.Error(), "backend call failed")

	rl := &RateLimitError{RetryAfter: 3 * time.Second}
	ge := &GenerationError{Topic: "tides", Err: rl}
	var target *RateLimitError
	assert.True(t, errors.As(ge, &target))
	assert.Equal(t, 3*time.Second, target.RetryAfter)
	assert.Contains(t, ge.Error(), `"tides"`)
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	assert.Equal(t, ProviderClaude, cfg.AI.Provider)
	assert.Equal(t, DefaultTimeout, cfg.AI.Timeout)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
	assert.Equal(t, 2000, cfg.Style.ExcerptChars)

	custom := Config{AI: AIConfig{Provider: ProviderEcho, Timeout: time.Second}}.WithDefaults()
	assert.Equal(t, ProviderEcho, custom.AI.Provider)
	assert.Equal(t, time.Second, custom.AI.Timeout)
}
