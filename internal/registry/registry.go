// Package registry provides a global registry of reactor cores.
// Cores register themselves in init() functions, allowing the engine
// and the menus to discover them without hardcoded lists.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Core describes a reactor core a shift can be run on.
type Core struct {
	// ID is the unique identifier used in configs and records (e.g. "circle").
	ID string

	// Title is a human-readable name for menus.
	Title string

	// InitialDrift is the drift multiplier every metric starts the shift with.
	InitialDrift float64

	// Clearance is the upgrade that unlocks this core. Empty means always available.
	Clearance string

	// Order sorts cores by difficulty in menus.
	Order int
}

var (
	cores = make(map[string]Core)
	mu    sync.RWMutex
)

// Register adds a core to the registry.
// Panics if a core with the same ID is already registered.
func Register(c Core) {
	mu.Lock()
	defer mu.Unlock()

	if c.ID == "" {
		panic("registry: core with empty id")
	}
	if _, exists := cores[c.ID]; exists {
		panic(fmt.Sprintf("registry: core %q already registered", c.ID))
	}

	cores[c.ID] = c
}

// List returns all registered cores, easiest first.
func List() []Core {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Core, 0, len(cores))
	for _, c := range cores {
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the core with the given ID.
// Returns an error if the ID is not registered.
func Lookup(id string) (Core, error) {
	mu.RLock()
	defer mu.RUnlock()

	c, ok := cores[id]
	if !ok {
		return Core{}, fmt.Errorf("registry: unknown reactor core %q", id)
	}

	return c, nil
}

// Exists checks if a core with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := cores[id]
	return ok
}
