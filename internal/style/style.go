// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package style derives a writing style profile from document text using a
// generative backend.
package style

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pdiddy/style-engine/internal/llm"
	"github.com/pdiddy/style-engine/pkg/types"
)

// Field validation rules. A value failing its rule is replaced by
// types.NotAvailable.
var fieldRules = map[string]string{
	"tone":      "required,max=120",
	"voice":     "required,max=120",
	"structure": "required,max=2000",
}

// placeholder values models emit instead of omitting a field.
var placeholders = map[string]bool{
	"n/a": true, "na": true, "none": true, "unknown": true, "null": true, "-": true,
}

// kvLinePattern matches "Tone: warm" style lines, with optional list
// markers and Markdown bold around the key.
var kvLinePattern = regexp.MustCompile(`(?im)^[ \t]*(?:[-*][ \t]+)?\**(tone|voice|structure)\**[ \t]*[:=][ \t]*\**[ \t]*(.+?)[ \t]*$`)

// Extractor turns document text into a StyleProfile with one backend call.
type Extractor struct {
	backend        llm.Backend
	excerptChars   int
	maxPromptChars int
	validate       *validator.Validate
	logger         *slog.Logger

	now   func() time.Time
	newID func() string
}

// New creates an Extractor. Zero limits in cfg fall back to the defaults.
func New(backend llm.Backend, cfg types.StyleConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	excerpt := cfg.ExcerptChars
	if excerpt <= 0 {
		excerpt = types.DefaultExcerptChars
	}
	maxPrompt := cfg.MaxPromptChars
	if maxPrompt <= 0 {
		maxPrompt = types.DefaultMaxPromptChars
	}
	return &Extractor{
		backend:        backend,
		excerptChars:   excerpt,
		maxPromptChars: maxPrompt,
		validate:       validator.New(),
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
		newID:          uuid.NewString,
	}
}

// ExtractStyle classifies the tone, voice, and structure of text.
//
// Fields the backend leaves out, or that fail validation, are set to
// types.NotAvailable; StyleProfile.Partial reports them. ExtractStyle fails
// with *types.ExtractionError only when the backend call fails or its
// response has no parseable structure. It does not retry.
func (e *Extractor) ExtractStyle(ctx context.Context, text string) (types.StyleProfile, error) {
	if strings.TrimSpace(text) == "" {
		return types.StyleProfile{}, types.ErrEmptyInput
	}

	prompt, err := renderPrompt(truncateRunes(text, e.maxPromptChars))
	if err != nil {
		return types.StyleProfile{}, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := e.backend.Complete(ctx, prompt)
	if err != nil {
		return types.StyleProfile{}, &types.ExtractionError{Reason: "backend call failed", Err: err}
	}

	fields, err := parseResponse(raw)
	if err != nil {
		return types.StyleProfile{}, &types.ExtractionError{Reason: "unparseable backend response", Err: err}
	}

	profile := types.StyleProfile{
		ID:            e.newID(),
		Tone:          e.field(fields, "tone"),
		Voice:         e.field(fields, "voice"),
		Structure:     e.field(fields, "structure"),
		SourceExcerpt: truncateRunes(text, e.excerptChars),
		CreatedAt:     e.now(),
	}

	if missing := profile.Partial(); len(missing) > 0 {
		e.logger.InfoContext(ctx, "partial style extraction", "missing", missing)
	}
	return profile, nil
}

// field returns the validated value for key or types.NotAvailable.
func (e *Extractor) field(fields map[string]string, key string) string {
	v := strings.TrimSpace(fields[key])
	if placeholders[strings.ToLower(v)] {
		return types.NotAvailable
	}
	if err := e.validate.Var(v, fieldRules[key]); err != nil {
		return types.NotAvailable
	}
	return v
}

// parseResponse extracts the style fields from a backend response. It
// accepts a JSON object (optionally inside a Markdown code fence) and falls
// back to "Key: value" lines. An error means neither form was found.
func parseResponse(raw string) (map[string]string, error) {
	body := strings.TrimSpace(raw)
	if body == "" {
		return nil, fmt.Errorf("empty response")
	}

	if obj, ok := jsonObject(body); ok {
		return obj, nil
	}

	matches := kvLinePattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no JSON object or key-value lines in response")
	}
	fields := make(map[string]string, len(matches))
	for _, m := range matches {
		key := strings.ToLower(m[1])
		if _, seen := fields[key]; !seen {
			fields[key] = strings.TrimSpace(strings.Trim(m[2], `"*`))
		}
	}
	return fields, nil
}

// jsonObject decodes the first JSON object in s that carries a style key.
// Decoding is attempted at every '{' so braces in surrounding prose are
// skipped. When no object has a style key, the first object that decoded
// is used. Keys are matched case-insensitively; string values are kept,
// numbers and booleans are formatted, string arrays are joined, and
// anything else is dropped.
func jsonObject(s string) (map[string]string, bool) {
	var decoded map[string]any
	found := false
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		var candidate map[string]any
		if err := json.NewDecoder(strings.NewReader(s[i:])).Decode(&candidate); err != nil {
			continue
		}
		if !found {
			decoded, found = candidate, true
		}
		if hasStyleKey(candidate) {
			decoded = candidate
			break
		}
	}
	if !found {
		return nil, false
	}

	fields := make(map[string]string, len(decoded))
	for k, v := range decoded {
		key := strings.ToLower(strings.TrimSpace(k))
		if _, want := fieldRules[key]; !want {
			continue
		}
		switch val := v.(type) {
		case string:
			fields[key] = val
		case float64, bool:
			fields[key] = fmt.Sprint(val)
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				if str, ok := item.(string); ok {
					parts = append(parts, str)
				}
			}
			fields[key] = strings.Join(parts, ", ")
		}
	}
	return fields, true
}

func hasStyleKey(obj map[string]any) bool {
	for k := range obj {
		if _, ok := fieldRules[strings.ToLower(strings.TrimSpace(k))]; ok {
			return true
		}
	}
	return false
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
