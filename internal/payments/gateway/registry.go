package gateway

import (
	"fmt"
	"sync"

	"github.com/payvault-go/internal/payments/ports"
)

// Registry resolves gateway implementations by provider key. Adding a
// provider kind means registering a new variant, not branching existing
// code. Catalog kinds without a registered variant are configuration
// stubs only.
type Registry struct {
	mu       sync.RWMutex
	gateways map[string]ports.Gateway
}

func NewRegistry() *Registry {
	return &Registry{gateways: make(map[string]ports.Gateway)}
}

func (r *Registry) Register(g ports.Gateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[g.ProviderKey()] = g
}

func (r *Registry) Resolve(providerKey string) (ports.Gateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.gateways[providerKey]
	if !ok {
		return nil, fmt.Errorf("no gateway registered for provider %q", providerKey)
	}
	return g, nil
}

func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.gateways))
	for key := range r.gateways {
		keys = append(keys, key)
	}
	return keys
}
