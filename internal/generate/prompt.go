// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/style-engine/pkg/types"
)

// sampleChars caps the source excerpt embedded in the generation prompt.
const sampleChars = 600

// generationPromptTmpl conditions the backend on a stored style profile.
// The topic is the final line so backends and tests can locate it.
var generationPromptTmpl = template.Must(template.New("generation").Parse(`You are a ghostwriter. Write a blog post in the writing style described below. Match the style; do not copy the sample's content.

Writing style:
- Tone: {{.Tone}}
- Voice: {{.Voice}}
- Structure: {{.Structure}}
{{- if .Sample}}

Sample of the original writing:
<sample>
{{.Sample}}
</sample>
{{- end}}

Write the complete post in Markdown, starting with a title heading. Output only the post.

Topic: {{.Topic}}
`))

type promptData struct {
	Tone, Voice, Structure string
	Sample                 string
	Topic                  string
}

// renderPrompt builds the generation prompt for topic under p. Fields
// holding types.NotAvailable are replaced with a neutral instruction.
func renderPrompt(p types.StyleProfile, topic string) (string, error) {
	data := promptData{
		Tone:      orNeutral(p.Tone),
		Voice:     orNeutral(p.Voice),
		Structure: orNeutral(p.Structure),
		Sample:    truncateRunes(p.SourceExcerpt, sampleChars),
		Topic:     topic,
	}
	var buf bytes.Buffer
	if err := generationPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func orNeutral(v string) string {
	if v == "" || v == types.NotAvailable {
		return "not specified; use your judgment"
	}
	return v
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
