package templates

import (
	"bytes"
	"text/template"
)

// TargetSourcesTemplateName is the registry name of the target_sources block
const TargetSourcesTemplateName = "target-sources"

// targetSourcesTemplate renders a header line, one tab-indented line per
// wrapped chunk and a closing parenthesis. No newline follows the ")".
const targetSourcesTemplate = `target_sources({{.Target}} PRIVATE
{{range .Lines}}	{{.}}
{{end}})`

// TargetSourcesData is the data passed to the target_sources template
type TargetSourcesData struct {
	Target string
	Lines  []string
}

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: map[string]string{
			TargetSourcesTemplateName: targetSourcesTemplate,
		},
	}
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	tmpl, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return tmpl
}

// Execute parses and executes the named template with data
func (tr *TemplateRegistry) Execute(name string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tr.MustGet(name))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
