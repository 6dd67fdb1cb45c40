// Package prompt loads the AI prompt template and composes the final prompt.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

// Placeholder marks where the raw report is inserted into a template.
const Placeholder = "{{REPORT}}"

//go:embed template.txt
var defaultTemplate string

// Template is a loaded prompt template.
type Template struct {
	Text string
}

// Load reads a prompt template from path, or returns the bundled default
// template when path is empty.
func Load(path string) (Template, error) {
	if path == "" {
		return Template{Text: defaultTemplate}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("read prompt file: %w", err)
	}
	return Template{Text: string(data)}, nil
}

// Compose substitutes the raw report into the template. A template without
// the placeholder gets the report appended after a blank line instead, with
// ok reported false so the caller can warn about it.
func (t Template) Compose(report string) (prompt string, ok bool) {
	if strings.Contains(t.Text, Placeholder) {
		return strings.ReplaceAll(t.Text, Placeholder, report), true
	}
	return t.Text + "\n\n" + report, false
}
