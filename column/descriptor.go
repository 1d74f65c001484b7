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
// Package column declares the per-column-family tuning descriptors that
// sit between application services and the embedded LSM engine: block
// layout, compression tier, compaction shape, and cache disposition. It is
// consumed by cache.Provision for cache sizing and engine.Configure for
// options assembly.
package column

// Compaction is the LSM compaction style a column uses.
type Compaction uint8

const (
	CompactionLevel Compaction = iota
	CompactionUniversal
	CompactionFifo
)

func (c Compaction) String() string {
	switch c {
	case CompactionLevel:
		return "level"
	case CompactionUniversal:
		return "universal"
	case CompactionFifo:
		return "fifo"
	default:
		return "unknown"
	}
}

// CompressionKind names a compression tier. The zero value is
// CompressionZstd; descriptors leave Compression unset at declaration time
// and have it patched from global config immediately before options
// assembly.
type CompressionKind uint8

const (
	CompressionZstd CompressionKind = iota
	CompressionSnappy
	CompressionZlib
	CompressionBz2
	CompressionLz4
	CompressionLz4hc
	CompressionNone
)

// CompressionFromConfig maps a config string to a tier, defaulting to Zstd
// for any value it doesn't recognize.
func CompressionFromConfig(s string) CompressionKind {
	switch s {
	case "snappy":
		return CompressionSnappy
	case "zlib":
		return CompressionZlib
	case "bz2":
		return CompressionBz2
	case "lz4":
		return CompressionLz4
	case "lz4hc":
		return CompressionLz4hc
	case "none":
		return CompressionNone
	default:
		return CompressionZstd
	}
}

// CacheDispKind is the disposition by which a column's block cache is
// provisioned: a private cache, a cache shared with a named sibling
// column, or the one process-wide shared pool.
type CacheDispKind uint8

const (
	CacheUnique CacheDispKind = iota
	CacheSharedWith
	CacheShared
)

// CacheDisp pairs the disposition with the sibling name SharedWith needs.
type CacheDisp struct {
	Kind  CacheDispKind
	Other string // only meaningful when Kind == CacheSharedWith
}

func Unique() CacheDisp              { return CacheDisp{Kind: CacheUnique} }
func SharedWith(other string) CacheDisp { return CacheDisp{Kind: CacheSharedWith, Other: other} }
func Shared() CacheDisp              { return CacheDisp{Kind: CacheShared} }

// MergeWidth bounds universal compaction's merge width.
type MergeWidth struct {
	Min uint
	Max uint
}

// Descriptor is an immutable per-column tuning record. Every field is a
// design-time constant keyed by column name, except Compression,
// CompressionLevel and BottommostLevel, which are patched from global
// config at DB-open time by Patch.
type Descriptor struct {
	Name    string
	Dropped bool

	KeySizeHint *uint // optional; informs cache sizing
	ValSizeHint *uint

	BlockSize  uint64
	IndexSize  uint64
	WriteSize  *uint64 // optional
	FileSize   uint64
	FileShape  []int32 // multipliers per level
	Level0Width int32
	LevelSize  uint64
	LevelShape []int32 // per-level additional multipliers
	TTL        uint64

	Compaction    Compaction
	CompactionPri uint8
	MergeWidth    MergeWidth

	Compression      CompressionKind // set at runtime from config, see Patch
	CompressionLevel int32
	BottommostLevel  *int32

	BlockIndexHashing bool

	CacheDisp   CacheDisp
	CacheSize   uint64 // byte capacity when Unique and not overridden
	CacheShards uint32 // power of two, <= 64
}

// Patch applies the three config-sourced fields immediately before options
// assembly: Compression, CompressionLevel, and BottommostLevel. It
// mutates a copy and returns it, leaving the static table entry untouched.
func (d Descriptor) Patch(cfg CompressionConfig) Descriptor {
	d.Compression = CompressionFromConfig(cfg.Algo)
	d.CompressionLevel = cfg.Level
	if cfg.BottommostEnabled {
		lvl := cfg.BottommostLevel
		d.BottommostLevel = &lvl
	} else {
		d.BottommostLevel = nil
	}
	return d
}

// CompressionConfig is the slice of global configuration Patch needs; it is
// satisfied by config.Global (kept separate so column has no import
// dependency on the config package, avoiding a cycle).
type CompressionConfig struct {
	Algo              string
	Level             int32
	BottommostEnabled bool
	BottommostLevel   int32
}
