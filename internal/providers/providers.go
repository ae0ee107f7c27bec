// Package providers abstracts the text-in/text-out inference services the
// metadata pipeline can call.
package providers

import (
	"context"
	"fmt"
)

// Request is one inference call: a prompt plus generation parameters.
type Request struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Provider is a stateless text oracle. Implementations guarantee nothing
// about response formatting; callers own all parsing discipline.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Registry resolves provider names to configured instances.
type Registry struct {
	byName map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Provider)}
}

// Register adds a provider under the given selector name.
func (r *Registry) Register(name string, p Provider) {
	r.byName[name] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return p, nil
}
