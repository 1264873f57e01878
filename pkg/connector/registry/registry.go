// Package registry manages connector registration and instantiation.
// Connector packages register themselves from init, and the CLI builds
// whichever connector its binary was compiled for.
package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Javier162380/airbyte/pkg/airbyteerrors"
	"github.com/Javier162380/airbyte/pkg/connector/core"
	"github.com/Javier162380/airbyte/pkg/logger"
)

// SourceFactory creates a source connector instance.
type SourceFactory func() core.Source

// DestinationFactory creates a destination connector instance.
type DestinationFactory func() core.Destination

// Registry holds connector factories keyed by connector name.
type Registry struct {
	sources      map[string]SourceFactory
	destinations map[string]DestinationFactory
	mu           sync.RWMutex
	logger       *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new connector registry
func NewRegistry() *Registry {
	return &Registry{
		sources:      make(map[string]SourceFactory),
		destinations: make(map[string]DestinationFactory),
		logger:       logger.Get().With(zap.String("component", "connector_registry")),
	}
}

// RegisterSource registers a source connector factory
func (r *Registry) RegisterSource(name string, factory SourceFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[name]; exists {
		return airbyteerrors.Newf(airbyteerrors.ErrorTypeConfig, "source connector %s already registered", name)
	}

	r.sources[name] = factory
	r.logger.Info("source connector registered", zap.String("name", name))
	return nil
}

// RegisterDestination registers a destination connector factory
func (r *Registry) RegisterDestination(name string, factory DestinationFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.destinations[name]; exists {
		return airbyteerrors.Newf(airbyteerrors.ErrorTypeConfig, "destination connector %s already registered", name)
	}

	r.destinations[name] = factory
	r.logger.Info("destination connector registered", zap.String("name", name))
	return nil
}

// CreateSource creates a source connector instance
func (r *Registry) CreateSource(name string) (core.Source, error) {
	r.mu.RLock()
	factory, exists := r.sources[name]
	r.mu.RUnlock()

	if !exists {
		return nil, airbyteerrors.Newf(airbyteerrors.ErrorTypeConfig, "source connector %s not found", name)
	}
	return factory(), nil
}

// CreateDestination creates a destination connector instance
func (r *Registry) CreateDestination(name string) (core.Destination, error) {
	r.mu.RLock()
	factory, exists := r.destinations[name]
	r.mu.RUnlock()

	if !exists {
		return nil, airbyteerrors.Newf(airbyteerrors.ErrorTypeConfig, "destination connector %s not found", name)
	}
	return factory(), nil
}

// ListSources returns the registered source connector names, sorted.
func (r *Registry) ListSources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]string, 0, len(r.sources))
	for name := range r.sources {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return sources
}

// ListDestinations returns the registered destination connector names, sorted.
func (r *Registry) ListDestinations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	destinations := make([]string, 0, len(r.destinations))
	for name := range r.destinations {
		destinations = append(destinations, name)
	}
	sort.Strings(destinations)
	return destinations
}

// HasSource checks if a source connector is registered
func (r *Registry) HasSource(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.sources[name]
	return exists
}

// HasDestination checks if a destination connector is registered
func (r *Registry) HasDestination(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.destinations[name]
	return exists
}

// Global registry functions

// RegisterSource registers a source connector in the global registry
func RegisterSource(name string, factory SourceFactory) error {
	return globalRegistry.RegisterSource(name, factory)
}

// RegisterDestination registers a destination connector in the global registry
func RegisterDestination(name string, factory DestinationFactory) error {
	return globalRegistry.RegisterDestination(name, factory)
}

// CreateSource creates a source connector from the global registry
func CreateSource(name string) (core.Source, error) {
	return globalRegistry.CreateSource(name)
}

// CreateDestination creates a destination connector from the global registry
func CreateDestination(name string) (core.Destination, error) {
	return globalRegistry.CreateDestination(name)
}

// ListSources returns registered sources from the global registry
func ListSources() []string {
	return globalRegistry.ListSources()
}

// ListDestinations returns registered destinations from the global registry
func ListDestinations() []string {
	return globalRegistry.ListDestinations()
}
