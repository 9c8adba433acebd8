// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Echo is an offline backend for demos and smoke tests. It never calls a
// network service.
//
// When the prompt carries a <document>...</document> block, Echo answers
// with a JSON style profile computed from simple surface statistics of that
// block. Otherwise it answers with a short Markdown post that restates the
// last "Topic:" line of the prompt.
type Echo struct{}

// Complete implements Backend.
func (Echo) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if doc, ok := between(prompt, "<document>", "</document>"); ok {
		return echoProfile(doc), nil
	}
	return echoPost(topicLine(prompt)), nil
}

func between(s, open, close string) (string, bool) {
	start := strings.Index(s, open)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(open):]
	end := strings.Index(rest, close)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

func topicLine(prompt string) string {
	topic := ""
	for _, line := range strings.Split(prompt, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "Topic:"); ok {
			topic = strings.TrimSpace(v)
		}
	}
	if topic == "" {
		topic = "Untitled"
	}
	return topic
}

func echoProfile(doc string) string {
	words := strings.Fields(strings.ToLower(doc))
	var first, second int
	for _, w := range words {
		switch strings.Trim(w, ".,;:!?\"'()") {
		case "i", "me", "my", "we", "our", "us":
			first++
		case "you", "your":
			second++
		}
	}

	voice := "third-person"
	switch {
	case first > 0 && first >= second:
		voice = "first-person"
	case second > 0:
		voice = "second-person, instructional"
	}

	tone := "neutral, informative"
	switch {
	case strings.Count(doc, "!") > 2:
		tone = "enthusiastic"
	case strings.Count(doc, "?") > 2:
		tone = "conversational"
	}

	paragraphs := 0
	for _, p := range strings.Split(doc, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}
	avg := 0
	if paragraphs > 0 {
		avg = len(words) / paragraphs
	}
	length := "long"
	if avg < 60 {
		length = "short"
	}
	structure := fmt.Sprintf("%d paragraphs, %s paragraphs averaging %d words", paragraphs, length, avg)

	out, _ := json.Marshal(map[string]string{
		"tone":      tone,
		"voice":     voice,
		"structure": structure,
	})
	return string(out)
}

func echoPost(topic string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", topic)
	fmt.Fprintf(&sb, "This is an offline draft about %s.\n\n", topic)
	sb.WriteString("Configure a real provider (claude, openai, or gemini) to generate styled content.\n")
	return sb.String()
}
