package palette

import (
	"sync"
	"testing"

	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	stone = &material.Material{Key: material.Key{Group: "core", Name: "stone"}, Collider: true, Cull: cube.AllFaces}
	dirt  = &material.Material{Key: material.Key{Group: "core", Name: "dirt"}, Collider: true, Cull: cube.AllFaces}
)

type recordingSink struct {
	mu  sync.Mutex
	ids map[ID]*material.Material
}

func (s *recordingSink) Publish(id ID, m *material.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids == nil {
		s.ids = make(map[ID]*material.Material)
	}
	if _, ok := s.ids[id]; ok {
		panic("published twice")
	}
	s.ids[id] = m
}

func TestInsertIdempotent(t *testing.T) {
	p := New()
	a, err := p.Insert(stone)
	require.NoError(t, err)
	b, err := p.Insert(stone)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, None, a)

	// Same key, different pointer.
	c, err := p.Insert(&material.Material{Key: stone.Key})
	require.NoError(t, err)
	assert.Equal(t, a, c)

	d, err := p.Insert(dirt)
	require.NoError(t, err)
	assert.Equal(t, a+1, d)
	assert.Equal(t, 2, p.Len())
}

func TestRoundTrip(t *testing.T) {
	p := New()
	for _, m := range []*material.Material{stone, dirt} {
		id, err := p.Insert(m)
		require.NoError(t, err)
		got, ok := p.Material(id)
		require.True(t, ok)
		assert.Equal(t, m.Key, got.Key)

		byKey, ok := p.ID(m.Key)
		require.True(t, ok)
		assert.Equal(t, id, byKey)
	}
	assert.Equal(t, []material.Key{stone.Key, dirt.Key}, p.Keys())
}

func TestUnknownLookups(t *testing.T) {
	p := New()
	_, ok := p.Material(None)
	assert.False(t, ok)
	_, ok = p.Material(7)
	assert.False(t, ok)
	_, ok = p.ID(material.Key{Group: "core", Name: "missing"})
	assert.False(t, ok)

	id, err := p.Insert(nil)
	require.NoError(t, err)
	assert.Equal(t, None, id)
}

func TestUpdatePublishesOnce(t *testing.T) {
	p := New()
	s := &recordingSink{}
	_, _ = p.Insert(stone)
	assert.Equal(t, 1, p.Update(s))
	assert.Equal(t, 0, p.Update(s))

	_, _ = p.Insert(dirt)
	assert.Equal(t, 1, p.Update(s))
	assert.Equal(t, stone, s.ids[1])
	assert.Equal(t, dirt, s.ids[2])
}

func TestUpdateConcurrentWithInsert(t *testing.T) {
	p := New()
	s := &recordingSink{}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = p.Insert(&material.Material{Key: material.Key{Group: "test", Name: string(rune('a' + i%26)) + string(rune('a'+i/26))}})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			p.Update(s)
		}
	}()
	wg.Wait()
	p.Update(s)

	assert.Len(t, s.ids, p.Len())
	for id, m := range s.ids {
		got, ok := p.Material(id)
		require.True(t, ok)
		assert.Equal(t, m, got)
	}
}
