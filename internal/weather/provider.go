package weather

import (
	"context"
	"strings"
)

// Provider abstracts a weather data source (simulated or a real upstream
// API). It exposes a single operation; callers never depend on a concrete
// provider type.
type Provider interface {
	Fetch(ctx context.Context, city string, cfg ProviderConfig) (RawPayload, error)
}

// Registry maps source names to provider variants. It is populated once at
// process start and never mutated afterwards, so concurrent resolves need no
// locking.
type Registry struct {
	providers map[Kind]Provider
}

// NewRegistry builds a registry from the given kind-to-provider mapping.
func NewRegistry(providers map[Kind]Provider) *Registry {
	m := make(map[Kind]Provider, len(providers))
	for k, p := range providers {
		m[k] = p
	}
	return &Registry{providers: m}
}

// Resolve maps a source name to a registered provider. Matching is
// case-insensitive. An absent source and an explicitly empty string behave
// identically: both default to the mock provider. Unregistered names fail
// closed with UnknownSourceError.
func (r *Registry) Resolve(source string) (Kind, Provider, error) {
	name := strings.ToLower(strings.TrimSpace(source))
	if name == "" {
		name = string(KindMock)
	}
	p, ok := r.providers[Kind(name)]
	if !ok {
		return "", nil, &UnknownSourceError{Name: source}
	}
	return Kind(name), p, nil
}
