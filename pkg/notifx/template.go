package notifx

import (
	"bytes"
	"html/template"
	"sync"
)

// TemplateRegistry stores named html/templates for email bodies.
type TemplateRegistry struct {
	templates map[string]*template.Template
	mu        sync.RWMutex
}

// NewTemplateRegistry creates an empty registry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{templates: make(map[string]*template.Template)}
}

// Register parses tmpl and stores it under name, replacing any previous
// template with the same name.
func (r *TemplateRegistry) Register(name, tmpl string) error {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return notifxErrors.NewWithCause(ErrTemplateParse, err).WithDetail("template", name)
	}
	r.mu.Lock()
	r.templates[name] = t
	r.mu.Unlock()
	return nil
}

// Has reports whether name is registered.
func (r *TemplateRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[name]
	return ok
}

// Render executes the named template with data.
func (r *TemplateRegistry) Render(name string, data interface{}) (string, error) {
	r.mu.RLock()
	t, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return "", notifxErrors.New(ErrTemplateNotFound).WithDetail("template", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", notifxErrors.NewWithCause(ErrTemplateRender, err).WithDetail("template", name)
	}
	return buf.String(), nil
}
