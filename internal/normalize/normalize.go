// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize cleans raw extracted document text before style analysis.
package normalize

import (
	"strings"
	"unicode"

	"github.com/pdiddy/style-engine/pkg/types"
)

// Normalize strips control and format characters, collapses runs of
// whitespace within each line, and reduces runs of blank lines to a single
// paragraph break. Single line breaks are preserved. The result has no
// leading or trailing whitespace.
//
// Normalize is idempotent. It returns types.ErrEmptyInput when nothing is
// left after cleaning.
func Normalize(raw string) (string, error) {
	s := strings.ToValidUTF8(raw, "\ufffd")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.Map(cleanRune, s)

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}

	if len(out) == 0 {
		return "", types.ErrEmptyInput
	}
	return strings.Join(out, "\n"), nil
}

// cleanRune maps whitespace to a plain space, drops control and format
// characters, and keeps newlines and everything else.
func cleanRune(r rune) rune {
	switch {
	case r == '\n':
		return r
	case unicode.IsSpace(r):
		return ' '
	case unicode.Is(unicode.Cc, r), unicode.Is(unicode.Cf, r):
		return -1
	}
	return r
}
