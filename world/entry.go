package world

import (
	"github.com/peterhenryd/herbolution-sub001/world/chunk"
	"github.com/sasha-s/go-deadlock"
)

// chunkEntry is a loaded chunk guarded by its lock. Readers of the mesh hold the read lock, Set, CullShared and
// Flush hold the write lock.
type chunkEntry struct {
	deadlock.RWMutex
	*chunk.Mesh

	// unloaded is set once the chunk has left the map. Jobs still holding the entry check it before mutating.
	unloaded bool
}

// lockPair write-locks both chunks in the order of their positions and returns a function unlocking them.
func lockPair(a, b *chunkEntry) (unlock func()) {
	if b.Position().Less(a.Position()) {
		a, b = b, a
	}
	a.Lock()
	b.Lock()
	return func() {
		b.Unlock()
		a.Unlock()
	}
}
