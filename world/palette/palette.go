// Package palette implements the per-chunk mapping between small integer ids and shared materials.
package palette

import (
	"errors"
	"math"
	"sync"

	"github.com/peterhenryd/herbolution-sub001/world/material"
	"go.uber.org/atomic"
)

// ID is a chunk-local reference to a material in a Palette. The zero ID is reserved for "no material".
type ID uint16

// None is the ID of an empty cube.
const None ID = 0

// Capacity is the maximum amount of materials a single Palette can hold.
const Capacity = math.MaxUint16

// ErrFull is returned by Palette.Insert when the palette already holds Capacity materials.
var ErrFull = errors.New("palette: no ids left")

// Sink receives materials newly interned by a palette. It is typically a render-side material registry.
type Sink interface {
	Publish(id ID, m *material.Material)
}

// Palette is a bijection between IDs and materials, local to one chunk. Inserting is idempotent by material
// key. Published entries are immutable, so readers may resolve any ID they have observed without further
// synchronisation against inserts.
type Palette struct {
	mu        sync.RWMutex
	materials []*material.Material
	ids       map[material.Key]ID

	// cursor is the amount of entries already handed to a Sink through Update. It only moves forward.
	cursor *atomic.Uint32
}

// New returns an empty Palette.
func New() *Palette {
	return &Palette{
		ids:    make(map[material.Key]ID),
		cursor: atomic.NewUint32(0),
	}
}

// Insert interns the material passed and returns its ID. If a material with the same key is already present,
// its existing ID is returned. Inserting nil returns None.
func (p *Palette) Insert(m *material.Material) (ID, error) {
	if m == nil {
		return None, nil
	}
	p.mu.RLock()
	id, ok := p.ids[m.Key]
	p.mu.RUnlock()
	if ok {
		return id, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if id, ok := p.ids[m.Key]; ok {
		return id, nil
	}
	if len(p.materials) >= Capacity {
		return None, ErrFull
	}
	p.materials = append(p.materials, m)
	id = ID(len(p.materials))
	p.ids[m.Key] = id
	return id, nil
}

// Material returns the material with the ID passed. False is returned for None and for unknown IDs.
func (p *Palette) Material(id ID) (*material.Material, bool) {
	if id == None {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if int(id) > len(p.materials) {
		return nil, false
	}
	return p.materials[id-1], true
}

// ID returns the ID of the material with the key passed.
func (p *Palette) ID(k material.Key) (ID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.ids[k]
	return id, ok
}

// Len returns the amount of materials in the palette.
func (p *Palette) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.materials)
}

// Keys returns the keys of all materials in ID order. The key at index i belongs to ID i+1.
func (p *Palette) Keys() []material.Key {
	p.mu.RLock()
	defer p.mu.RUnlock()
	keys := make([]material.Key, len(p.materials))
	for i, m := range p.materials {
		keys[i] = m.Key
	}
	return keys
}

// Snapshot returns the materials of the palette indexed by ID. Index 0 (None) is always nil.
func (p *Palette) Snapshot() []*material.Material {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := make([]*material.Material, len(p.materials)+1)
	copy(s[1:], p.materials)
	return s
}

// Update publishes every material inserted since the previous call to the Sink passed, and returns the amount
// published. Concurrent calls never publish the same entry twice.
func (p *Palette) Update(s Sink) int {
	for {
		start := p.cursor.Load()
		end := uint32(p.Len())
		if start >= end {
			return 0
		}
		if !p.cursor.CAS(start, end) {
			continue
		}
		p.mu.RLock()
		pending := p.materials[start:end]
		p.mu.RUnlock()

		for i, m := range pending {
			s.Publish(ID(start+uint32(i)+1), m)
		}
		return len(pending)
	}
}
