// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package style

import (
	"bytes"
	"text/template"
)

// extractionPromptTmpl asks the backend to classify tone, voice, and
// structure and to answer with one JSON object holding exactly those keys.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`You are a writing style analyst. Read the document below and describe how it is written, not what it is about.

Identify:
- tone: a short descriptor of the attitude of the writing (e.g. "conversational", "authoritative", "playful")
- voice: a short descriptor of the narrative perspective and stance (e.g. "first-person", "instructional", "third-person analytical")
- structure: one or two sentences on paragraphing and organization (paragraph length, use of headings, lists, openings and closings)

Respond with exactly one JSON object with the string fields "tone", "voice", and "structure". Do not include any text outside the JSON object.

Example response:
{"tone": "conversational", "voice": "first-person", "structure": "Short paragraphs of two to three sentences, a question as the opening hook, and a one-line takeaway at the end."}

<document>
{{.Document}}
</document>
`))

// renderPrompt executes the extraction prompt template with the given document.
func renderPrompt(document string) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, struct{ Document string }{Document: document}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
