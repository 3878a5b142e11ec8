package core

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a checker for a declared update source.
type Factory func(src Source, client *Client) (Checker, error)

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register adds a checker factory for a source kind (e.g., "github", "maven").
func Register(kind string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = factory
}

// New creates a checker for src using the factory registered for src.Kind.
// If client is nil, DefaultClient() is used.
func New(src Source, client *Client) (Checker, error) {
	mu.RLock()
	factory, ok := factories[src.Kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown update source kind: %q", src.Kind)
	}
	if client == nil {
		client = DefaultClient()
	}
	return factory(src, client)
}

// SupportedKinds returns all registered source kinds, sorted.
func SupportedKinds() []string {
	mu.RLock()
	defer mu.RUnlock()

	kinds := make([]string, 0, len(factories))
	for kind := range factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
