package prompt

import (
	"bytes"
	"fmt"
	"strings"

	"promptsmith/internal/jsonutil"
)

// Builder assembles a sectioned user instruction:
//
//	[TITLE]
//	body
//
// Empty sections are skipped so callers can add them unconditionally.
type Builder struct {
	buf bytes.Buffer
	err error
}

// Section appends a titled text section.
func (b *Builder) Section(title, body string) *Builder {
	if strings.TrimSpace(body) == "" {
		return b
	}
	b.buf.WriteString("[")
	b.buf.WriteString(title)
	b.buf.WriteString("]\n")
	b.buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.buf.WriteString("\n")
	}
	b.buf.WriteString("\n")
	return b
}

// JSONSection appends v encoded as indented JSON. Encoding keeps <, > and &
// literal; the model reads this text.
func (b *Builder) JSONSection(title string, v any) *Builder {
	if v == nil {
		return b
	}
	enc, err := jsonutil.MarshalNoEscapeIndent(v, "", "  ")
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("prompt: encode section %s: %w", title, err)
		}
		return b
	}
	return b.Section(title, string(enc))
}

// List appends items as a bulleted section.
func (b *Builder) List(title string, items []string) *Builder {
	var body strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&body, "- %s\n", item)
	}
	return b.Section(title, body.String())
}

// Build returns the assembled instruction, or the first encoding error.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return strings.TrimSpace(b.buf.String()) + "\n", nil
}
