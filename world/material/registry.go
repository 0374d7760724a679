package material

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicate is returned when registering a material whose key is already registered.
var ErrDuplicate = errors.New("material: duplicate key")

// Registry holds every material known to a world, keyed by their Key. It is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex
	m  map[Key]*Material
}

// NewRegistry returns a Registry holding the materials passed.
func NewRegistry(materials ...*Material) (*Registry, error) {
	r := &Registry{m: make(map[Key]*Material, len(materials))}
	for _, m := range materials {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a material to the registry.
func (r *Registry) Register(m *Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[m.Key]; ok {
		return fmt.Errorf("register %v: %w", m.Key, ErrDuplicate)
	}
	r.m[m.Key] = m
	return nil
}

// Lookup returns the material registered under the key passed.
func (r *Registry) Lookup(k Key) (*Material, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.m[k]
	return m, ok
}

// All returns all registered materials, sorted by key.
func (r *Registry) All() []*Material {
	r.mu.RLock()
	all := make([]*Material, 0, len(r.m))
	for _, m := range r.m {
		all = append(all, m)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].Key.String() < all[j].Key.String()
	})
	return all
}

// Len returns the amount of registered materials.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}
