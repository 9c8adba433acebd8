// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// downloadNameChars caps the topic part of the default output file name.
const downloadNameChars = 30

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// downloadName returns the default file name for content about topic:
// blog_post_<topic with spaces as underscores, at most 30 chars>.txt.
func downloadName(topic string) string {
	slug := strings.ReplaceAll(topic, " ", "_")
	slug = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '_'
		}
		return r
	}, slug)
	if utf8.RuneCountInString(slug) > downloadNameChars {
		slug = string([]rune(slug)[:downloadNameChars])
	}
	return "blog_post_" + slug + ".txt"
}

// renderContent encodes Markdown content for the output path's extension.
// .html is rendered with goldmark; anything else is written as Markdown.
func renderContent(path, content string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(content), &buf); err != nil {
			return nil, fmt.Errorf("rendering HTML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return []byte(content), nil
	}
}

// writeContent renders content and writes it to path.
func writeContent(path, content string) error {
	data, err := renderContent(path, content)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// shorten truncates s to n runes, marking the cut with "...".
func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
