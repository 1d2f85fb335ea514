// Package metadata renders per-token metadata documents from mustache
// templates. A template is compiled once per drop; every token render reuses
// the compiled form.
//
// Unlike the template engine's default behavior, a placeholder listed as
// required but absent from the field map fails the render instead of
// silently emitting an empty string.
package metadata

import (
	"fmt"
	"os"

	"github.com/cbroglie/mustache"

	"github.com/dmitrijs2005/tokendrop/internal/common"
)

type Templater struct {
	tmpl     *mustache.Template
	required []string
}

// NewTemplater compiles the given mustache source. The required list names
// the fields every render must supply.
func NewTemplater(source string, required []string) (*Templater, error) {
	tmpl, err := mustache.ParseString(source)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &Templater{tmpl: tmpl, required: required}, nil
}

// NewTemplaterFromFile reads and compiles the template at path.
func NewTemplaterFromFile(path string, required []string) (*Templater, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	return NewTemplater(string(data), required)
}

// Render substitutes fields into the template and returns the document text.
// Rendering has no side effects; writing the result to disk is the caller's
// separate step.
func (t *Templater) Render(fields map[string]any) (string, error) {
	for _, name := range t.required {
		v, ok := fields[name]
		if !ok || v == nil {
			return "", fmt.Errorf("field %q: %w", name, common.ErrMissingField)
		}
	}

	out, err := t.tmpl.Render(fields)
	if err != nil {
		return "", fmt.Errorf("rendering metadata: %w", err)
	}
	return out, nil
}
