package app

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Template names
const (
	TemplateStart = "start.html"
	TemplateInfo  = "info.html"
	TemplateCheck = "check.html"
)

// Templates renders the embedded HTML documents
type Templates struct {
	set *template.Template
}

// LoadTemplates parses all embedded templates
func LoadTemplates() (*Templates, error) {
	set, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Templates{set: set}, nil
}

// Render executes the named template with data
func (t *Templates) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.set.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
