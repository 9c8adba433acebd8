// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document turns uploaded files into plain text for style analysis.
// Plain text is read directly; PDF and DOCX go through a Converter.
package document

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pdiddy/style-engine/pkg/types"
)

// Format is the document kind after detection.
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textExtensions are accepted as plain text even when detection cannot
// confirm it, so invalid encodings surface as ErrCorruptFile.
var textExtensions = map[string]bool{".txt": true, ".md": true, ".markdown": true, ".text": true}

// Converter turns a binary document into text.
type Converter interface {
	Convert(ctx context.Context, format Format, data []byte) (string, error)
}

// ConverterFactory builds a Converter on first use, so a missing container
// runtime only matters when a PDF or DOCX is actually read.
type ConverterFactory func(ctx context.Context) (Converter, error)

// Reader extracts text from uploaded documents.
type Reader struct {
	newConverter ConverterFactory

	mu        sync.Mutex
	converter Converter
}

// NewReader creates a Reader. A nil factory limits the reader to plain text.
func NewReader(newConverter ConverterFactory) *Reader {
	return &Reader{newConverter: newConverter}
}

// Detect classifies data, using name's extension as a hint.
func Detect(name string, data []byte) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	m := mimetype.Detect(data)

	switch {
	case m.Is(mimePDF):
		return FormatPDF, nil
	case m.Is(mimeDOCX):
		return FormatDOCX, nil
	case isText(m) || textExtensions[ext]:
		return FormatText, nil
	case ext == ".pdf" || ext == ".docx":
		return "", fmt.Errorf("%w: %s content is %s", types.ErrCorruptFile, ext, m.String())
	default:
		return "", fmt.Errorf("%w: %s (%s)", types.ErrUnsupportedFormat, name, m.String())
	}
}

func isText(m *mimetype.MIME) bool {
	for p := m; p != nil; p = p.Parent() {
		if p.Is(mimeText) {
			return true
		}
	}
	return false
}

// Extract returns the text of the named document.
func (r *Reader) Extract(ctx context.Context, name string, data []byte) (string, error) {
	format, err := Detect(name, data)
	if err != nil {
		return "", err
	}

	if format == FormatText {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not valid UTF-8 text", types.ErrCorruptFile, name)
		}
		return string(data), nil
	}

	conv, err := r.converterFor(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s needs a converter: %w", types.ErrUnsupportedFormat, format, err)
	}
	text, err := conv.Convert(ctx, format, data)
	if err != nil {
		return "", fmt.Errorf("%w: converting %s: %w", types.ErrCorruptFile, name, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s produced no text", types.ErrCorruptFile, name)
	}
	return text, nil
}

func (r *Reader) converterFor(ctx context.Context) (Converter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.converter != nil {
		return r.converter, nil
	}
	if r.newConverter == nil {
		return nil, fmt.Errorf("no converter configured")
	}
	c, err := r.newConverter(ctx)
	if err != nil {
		return nil, err
	}
	r.converter = c
	return c, nil
}

// Preview returns the first n runes of text, with "..." appended when
// text is longer.
func Preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
