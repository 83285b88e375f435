// Package memory provides in-memory store implementations.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openfeel/decisionbridge/domain/decision"
	"github.com/openfeel/decisionbridge/ports"
)

// ServiceRegistry is an in-memory implementation of
// ports.ServiceRegistry.
type ServiceRegistry struct {
	mu       sync.RWMutex
	services map[string]decision.Service // by name
}

// NewServiceRegistry creates an empty in-memory registry.
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[string]decision.Service),
	}
}

// Put stores a service, replacing any existing service with the same
// name.
func (r *ServiceRegistry) Put(ctx context.Context, svc decision.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.services[svc.Name] = svc
	return nil
}

// Get retrieves a service by name.
func (r *ServiceRegistry) Get(ctx context.Context, name string) (decision.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.services[name]
	if !ok {
		return decision.Service{}, decision.ErrServiceNotFound
	}
	return svc, nil
}

// List returns all registered services, sorted by name.
func (r *ServiceRegistry) List(ctx context.Context) ([]decision.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]decision.Service, 0, len(r.services))
	for _, svc := range r.services {
		result = append(result, svc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Delete removes a service by name.
func (r *ServiceRegistry) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[name]; !ok {
		return decision.ErrServiceNotFound
	}
	delete(r.services, name)
	return nil
}

// Ensure interface compliance.
var _ ports.ServiceRegistry = (*ServiceRegistry)(nil)
