package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Engine renders prompt fragment templates. Templates use text/template
// syntax; missing context keys render as zero values so fragments stay
// usable with partial context.
type Engine struct {
	funcs template.FuncMap
}

// NewEngine returns an Engine with the standard fragment helpers registered.
func NewEngine() *Engine {
	return &Engine{
		funcs: template.FuncMap{
			"frontmatter": frontmatter,
			"join":        strings.Join,
		},
	}
}

// Render executes the template with the given context. The name is used in
// error messages only.
func (e *Engine) Render(name, tmpl string, context map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Funcs(e.funcs).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, context); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.String(), nil
}

// frontmatter marshals metadata into a YAML frontmatter block, delimited by
// --- lines. Empty metadata produces nothing, so templates can call it
// unconditionally.
func frontmatter(metadata map[string]any) (string, error) {
	if len(metadata) == 0 {
		return "", nil
	}
	data, err := yaml.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}
	return "---\n" + string(data) + "---\n", nil
}
