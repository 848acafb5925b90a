package llm

import "fmt"

// Registry resolves provider names to implementations.
type Registry struct {
	providers       map[string]Provider
	defaultProvider string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// RegisterProvider adds a provider implementation. The first registered
// provider becomes the default unless a later one is marked as such.
func (r *Registry) RegisterProvider(name string, p Provider, isDefault bool) {
	r.providers[name] = p
	if isDefault || r.defaultProvider == "" {
		r.defaultProvider = name
	}
}

// Resolve returns the provider for a given name (default if empty).
func (r *Registry) Resolve(name string) (Provider, error) {
	if name == "" {
		name = r.defaultProvider
	}

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not registered", name)
	}

	return p, nil
}
