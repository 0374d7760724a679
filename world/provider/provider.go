// Package provider implements a chunk provider backed by a leveldb database.
package provider

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/peterhenryd/herbolution-sub001/world/chunk"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/material"
)

// ErrUnknownMaterial is returned when a stored chunk references a material missing from the registry.
var ErrUnknownMaterial = errors.New("provider: unknown material")

// Provider stores chunks in a leveldb database. Every chunk is stored under three keys: its version and
// compression, the keys of its palette in ID order, and its compressed run-length encoded cube materials.
type Provider struct {
	DB  *leveldb.DB
	dir string
	reg *material.Registry

	compression Compression
}

// chunkVersion is the current version of stored chunks.
const chunkVersion = 1

const (
	keyVersion = 'v'
	keyPalette = 'p'
	keyCubes   = 'c'
)

// New opens the provider reading and writing from/to the database under the directory passed, creating it if
// needed. Materials of stored chunks are resolved through reg. Chunks saved are compressed with c.
func New(dir string, reg *material.Registry, c Compression) (*Provider, error) {
	if err := os.MkdirAll(filepath.Join(dir, "db"), 0777); err != nil {
		return nil, fmt.Errorf("error creating world directory: %w", err)
	}
	// Cube data is compressed before it reaches leveldb already.
	compression := opt.NoCompression
	if c == CompressionNone {
		compression = opt.FlateCompression
	}
	db, err := leveldb.OpenFile(filepath.Join(dir, "db"), &opt.Options{
		Compression: compression,
		BlockSize:   16 * opt.KiB,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening leveldb database: %w", err)
	}
	return &Provider{DB: db, dir: dir, reg: reg, compression: c}, nil
}

// LoadChunk loads the chunk at the position passed from the database. If it doesn't exist, exists is false. If an
// error is returned, exists is always assumed to be true.
func (p *Provider) LoadChunk(pos cube.ChunkPos) (c *chunk.Mesh, exists bool, err error) {
	key := index(pos)
	version, err := p.DB.Get(append(key, keyVersion), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	} else if err != nil {
		return nil, true, fmt.Errorf("error reading version: %w", err)
	}
	if len(version) != 2 || version[0] != chunkVersion {
		return nil, true, fmt.Errorf("unsupported chunk version %v", version)
	}

	keys, err := p.DB.Get(append(key, keyPalette), nil)
	if err != nil {
		return nil, true, fmt.Errorf("error reading palette: %w", err)
	}
	materials, err := p.resolve(keys)
	if err != nil {
		return nil, true, err
	}

	data, err := p.DB.Get(append(key, keyCubes), nil)
	if err != nil {
		return nil, true, fmt.Errorf("error reading cubes: %w", err)
	}
	if data, err = Compression(version[1]).decompress(data); err != nil {
		return nil, true, fmt.Errorf("error decompressing cubes: %w", err)
	}
	c, err = chunk.Decode(pos, data, materials)
	return c, true, err
}

// SaveChunk saves the chunk passed to the database, replacing whatever was stored at its position.
func (p *Provider) SaveChunk(c *chunk.Mesh) error {
	data, err := p.compression.compress(c.Encode())
	if err != nil {
		return fmt.Errorf("error compressing cubes: %w", err)
	}
	key := index(c.Position())

	b := new(leveldb.Batch)
	b.Put(append(key, keyVersion), []byte{chunkVersion, byte(p.compression)})
	b.Put(append(key, keyPalette), encodeKeys(c.Palette().Keys()))
	b.Put(append(key, keyCubes), data)
	if err := p.DB.Write(b, nil); err != nil {
		return fmt.Errorf("error writing chunk %v: %w", c.Position(), err)
	}
	return nil
}

// Positions returns the positions of all chunks stored in the database.
func (p *Provider) Positions() ([]cube.ChunkPos, error) {
	var positions []cube.ChunkPos
	iter := p.DB.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		k := iter.Key()
		if len(k) != 13 || k[12] != keyVersion {
			continue
		}
		positions = append(positions, cube.ChunkPos{
			int32(binary.LittleEndian.Uint32(k)),
			int32(binary.LittleEndian.Uint32(k[4:])),
			int32(binary.LittleEndian.Uint32(k[8:])),
		})
	}
	return positions, iter.Error()
}

// Delete removes the chunk at the position passed from the database.
func (p *Provider) Delete(pos cube.ChunkPos) error {
	key := index(pos)
	b := new(leveldb.Batch)
	for _, tag := range []byte{keyVersion, keyPalette, keyCubes} {
		b.Delete(append(key, tag))
	}
	return p.DB.Write(b, nil)
}

// Close closes the database.
func (p *Provider) Close() error {
	return p.DB.Close()
}

// resolve looks up the materials of encoded palette keys.
func (p *Provider) resolve(data []byte) ([]*material.Material, error) {
	keys, err := decodeKeys(data)
	if err != nil {
		return nil, err
	}
	materials := make([]*material.Material, len(keys))
	for i, k := range keys {
		m, ok := p.reg.Lookup(k)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnknownMaterial, k)
		}
		materials[i] = m
	}
	return materials, nil
}

// index returns the 12 byte key prefix of the chunk position passed. The tag of the entry is appended to it.
func index(pos cube.ChunkPos) []byte {
	b := make([]byte, 12, 13)
	binary.LittleEndian.PutUint32(b, uint32(pos[0]))
	binary.LittleEndian.PutUint32(b[4:], uint32(pos[1]))
	binary.LittleEndian.PutUint32(b[8:], uint32(pos[2]))
	return b
}

// encodeKeys writes material keys as a sequence of strings, each prefixed by its length as a uint16.
func encodeKeys(keys []material.Key) []byte {
	var b []byte
	for _, k := range keys {
		s := k.String()
		b = append(b, byte(len(s)), byte(len(s)>>8))
		b = append(b, s...)
	}
	return b
}

// decodeKeys reverses encodeKeys.
func decodeKeys(b []byte) ([]material.Key, error) {
	var keys []material.Key
	for len(b) > 0 {
		if len(b) < 2 {
			return nil, fmt.Errorf("%w: truncated palette", chunk.ErrCorrupt)
		}
		n := int(binary.LittleEndian.Uint16(b))
		if len(b) < 2+n {
			return nil, fmt.Errorf("%w: truncated palette", chunk.ErrCorrupt)
		}
		keys = append(keys, material.ParseKey(string(b[2:2+n])))
		b = b[2+n:]
	}
	return keys, nil
}
