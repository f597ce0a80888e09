package model

import "strings"

// Registry stores constructed model handles by provider name.
type Registry struct {
	models map[string]Model
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		models: make(map[string]Model),
	}
}

// Register adds a model handle under its own name.
func (r *Registry) Register(m Model) {
	if r == nil || m == nil {
		return
	}
	name := strings.ToLower(strings.TrimSpace(m.Name()))
	if name == "" {
		return
	}
	if r.models == nil {
		r.models = make(map[string]Model)
	}
	r.models[name] = m
}

// Get returns a named model handle if present.
func (r *Registry) Get(name string) (Model, bool) {
	if r == nil || r.models == nil {
		return nil, false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, false
	}
	m, ok := r.models[name]
	return m, ok
}

// Names returns the registered provider names, unordered.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.models))
	for name := range r.models {
		out = append(out, name)
	}
	return out
}
