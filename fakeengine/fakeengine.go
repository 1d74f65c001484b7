/*
Copyright (C) 2023-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
// Package fakeengine is a test double for the external LSM engine: it
// never touches disk, but gives the codec package and engine.Configure
// something real to drive end to end in tests — prefix scans over an
// ordered keyspace, and a column-family handle that records the two
// options strings applied to it.
//
// The ordered keyspace is a github.com/google/btree.BTreeG, the same
// generic tree storage/index.go's StorageIndex uses for its own per-shard
// secondary index — repurposed here to hold raw encoded []byte keys in
// the codec's own sort order instead of scm.Scmer index tuples.
package fakeengine

import (
	"bytes"
	"fmt"

	"github.com/google/btree"

	"github.com/relaydb/cfkv/column"
	"github.com/relaydb/cfkv/compression"
	"github.com/relaydb/cfkv/engine"
)

type kv struct {
	key   []byte
	value []byte
}

func less(a, b kv) bool { return bytes.Compare(a.key, b.key) < 0 }

// Column is one open, in-memory "column family": a sorted keyspace plus
// the options-string calls the engine package applied to it.
type Column struct {
	name  string
	tree  *btree.BTreeG[kv]
	codec compression.Codec // set by ApplyCompression; nil stores values verbatim

	AppliedOptionStrings []string
	FailOptionString     string // if set, ApplyOptionsString fails for this exact string
}

// NewColumn opens an empty column family named name.
func NewColumn(name string) *Column {
	return &Column{name: name, tree: btree.NewG(32, less)}
}

func (c *Column) Name() string { return c.name }

// ApplyCompression resolves kind to a compression.Codec and has every
// subsequent Put/Get for this column run its value through it, so the
// tier engine.Configure picked for a descriptor is actually exercised
// instead of only recorded as a string.
func (c *Column) ApplyCompression(kind column.CompressionKind) error {
	codec, err := compression.For(kind)
	if err != nil {
		return err
	}
	c.codec = codec
	return nil
}

var _ engine.CompressionReceiver = (*Column)(nil)

// Put inserts or overwrites a key/value pair, running value through the
// column's compression codec (if one was applied) before storing it, the
// same way a real column family writes a compressed block.
func (c *Column) Put(key, value []byte) error {
	stored := value
	if c.codec != nil {
		var buf bytes.Buffer
		if err := c.codec.Compress(&buf, value); err != nil {
			return fmt.Errorf("fakeengine: compressing value for %q: %w", c.name, err)
		}
		stored = buf.Bytes()
	}
	c.tree.ReplaceOrInsert(kv{key: append([]byte(nil), key...), value: append([]byte(nil), stored...)})
	return nil
}

// Get returns the value stored for key, decompressed through the column's
// codec if one was applied, the same data flow a real engine's Get would
// hand back after decompressing the block it read from disk.
func (c *Column) Get(key []byte) ([]byte, bool) {
	item, ok := c.tree.Get(kv{key: key})
	if !ok {
		return nil, false
	}
	if c.codec == nil {
		return item.value, true
	}
	val, err := c.codec.Decompress(item.value)
	if err != nil {
		panic(fmt.Sprintf("fakeengine: corrupt compressed block for %q: %v", c.name, err))
	}
	return val, true
}

// ScanPrefix calls fn for every key with the given prefix, in ascending
// byte order, stopping early if fn returns false. This is the harness a
// codec.Decoder paired with Ignore/IgnoreAll exercises: callers build a
// prefix by encoding only the leading fields of a composite key.
func (c *Column) ScanPrefix(prefix []byte, fn func(key, value []byte) bool) {
	c.tree.AscendGreaterOrEqual(kv{key: prefix}, func(item kv) bool {
		if !bytes.HasPrefix(item.key, prefix) {
			return false
		}
		val := item.value
		if c.codec != nil {
			decoded, err := c.codec.Decompress(val)
			if err != nil {
				panic(fmt.Sprintf("fakeengine: corrupt compressed block for %q: %v", c.name, err))
			}
			val = decoded
		}
		return fn(item.key, val)
	})
}

// Len reports how many keys are stored.
func (c *Column) Len() int { return c.tree.Len() }

// Engine implements engine.Engine against a set of in-memory Columns.
type Engine struct {
	Columns map[string]*Column
}

// New returns an Engine with no open columns.
func New() *Engine {
	return &Engine{Columns: make(map[string]*Column)}
}

// Open creates (or returns the existing) column family named name.
func (e *Engine) Open(name string) *Column {
	if c, ok := e.Columns[name]; ok {
		return c
	}
	c := NewColumn(name)
	e.Columns[name] = c
	return c
}

var _ engine.Engine = (*Engine)(nil)
var _ engine.ColumnFamily = (*Column)(nil)

// ApplyOptionsString records s against cf, failing it if the column was
// configured via FailOptionString to reject that exact string — the hook
// tests use to exercise engine.ErrEngineOptions.
func (e *Engine) ApplyOptionsString(cf engine.ColumnFamily, s string) error {
	col, ok := cf.(*Column)
	if !ok {
		return fmt.Errorf("fakeengine: unknown column family handle %T", cf)
	}
	if col.FailOptionString != "" && col.FailOptionString == s {
		return fmt.Errorf("fakeengine: rejected options string %q", s)
	}
	col.AppliedOptionStrings = append(col.AppliedOptionStrings, s)
	return nil
}
