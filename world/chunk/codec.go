package chunk

import (
	"errors"
	"fmt"

	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
	"github.com/peterhenryd/herbolution-sub001/world/palette"
)

// ErrCorrupt is returned when decoding material data that is malformed.
var ErrCorrupt = errors.New("chunk: corrupt material data")

// maxRun is the longest run a single tuple of the encoding can hold.
const maxRun = 0xff

// EncodeRLE run-length encodes a sequence of material IDs as (count u8, id u16 little endian) tuples. The None ID
// (0) encodes empty cubes.
func EncodeRLE(ids []palette.ID) []byte {
	buf := make([]byte, 0, 64)
	for i := 0; i < len(ids); {
		id, n := ids[i], 1
		for i+n < len(ids) && ids[i+n] == id && n < maxRun {
			n++
		}
		buf = append(buf, byte(n), byte(id), byte(id>>8))
		i += n
	}
	return buf
}

// DecodeRLE decodes data produced by EncodeRLE. A truncated tuple, a tuple with a zero count or data holding
// more than one chunk of IDs results in ErrCorrupt.
func DecodeRLE(data []byte) ([]palette.ID, error) {
	if len(data)%3 != 0 {
		return nil, fmt.Errorf("%w: %v trailing bytes", ErrCorrupt, len(data)%3)
	}
	ids := make([]palette.ID, 0, min(len(data), cube.ChunkVolume))
	for i := 0; i < len(data); i += 3 {
		n := int(data[i])
		if n == 0 {
			return nil, fmt.Errorf("%w: zero count at offset %v", ErrCorrupt, i)
		}
		if len(ids)+n > cube.ChunkVolume {
			return nil, fmt.Errorf("%w: more than %v ids", ErrCorrupt, cube.ChunkVolume)
		}
		id := palette.ID(data[i+1]) | palette.ID(data[i+2])<<8
		for j := 0; j < n; j++ {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// IDs returns the material ID of every cube in linear order.
func (c *Mesh) IDs() []palette.ID {
	ids := make([]palette.ID, len(c.data))
	for i, cb := range c.data {
		ids[i] = cb.Material
	}
	return ids
}

// Encode returns the run-length encoded material IDs of the mesh. The IDs resolve through the keys returned by
// Palette().Keys() at the time of encoding.
func (c *Mesh) Encode() []byte {
	return EncodeRLE(c.IDs())
}

// Decode reconstructs a Mesh at pos from data produced by Mesh.Encode. materials holds the palette of the encoded
// mesh in ID order, so that materials[i] is the material of ID i+1. All faces are recomputed as by Fill.
func Decode(pos cube.ChunkPos, data []byte, materials []*material.Material) (*Mesh, error) {
	ids, err := DecodeRLE(data)
	if err != nil {
		return nil, fmt.Errorf("decode chunk %v: %w", pos, err)
	}
	if len(ids) != cube.ChunkVolume {
		return nil, fmt.Errorf("decode chunk %v: %w: %v cubes, expected %v", pos, ErrCorrupt, len(ids), cube.ChunkVolume)
	}
	c := New(pos)
	for i, m := range materials {
		if m == nil {
			return nil, fmt.Errorf("decode chunk %v: %w: no material for id %v", pos, ErrCorrupt, i+1)
		}
		id, err := c.palette.Insert(m)
		if err != nil {
			return nil, fmt.Errorf("decode chunk %v: %w", pos, err)
		}
		if int(id) != i+1 {
			return nil, fmt.Errorf("decode chunk %v: %w: duplicate palette entry %v", pos, ErrCorrupt, m.Key)
		}
	}
	for i, id := range ids {
		if int(id) > len(materials) {
			return nil, fmt.Errorf("decode chunk %v: %w: unknown id %v", pos, ErrCorrupt, id)
		}
		c.data[i].Material = id
	}
	c.recompute()
	return c, nil
}
