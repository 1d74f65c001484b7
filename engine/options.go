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
// Package engine assembles a concrete native-engine column configuration
// from a patched column.Descriptor and the cache handle cache.Provision
// resolved for it. It never opens a database or touches disk; the actual
// LSM engine is an external collaborator reached only through the Engine
// port defined here, so this package can be exercised without cgo or a
// real RocksDB build (see fakeengine for a test double).
package engine

import "github.com/relaydb/cfkv/column"

// CompressionReceiver is an optional interface a ColumnFamily may
// implement to have Configure push the resolved compression tier down to
// it directly, rather than only learning the tier name through
// Options.Compression.Type. A real cgo-backed RocksDB column family has no
// use for this (RocksDB applies compression itself once the options are
// set); fakeengine's Column implements it so Put/Get can actually
// round-trip stored blocks through the chosen codec.
type CompressionReceiver interface {
	ApplyCompression(column.CompressionKind) error
}

// DataBlockIndexType mirrors the engine's block-based-table index kind.
type DataBlockIndexType uint8

const (
	BinarySearch DataBlockIndexType = iota
	BinaryAndHash
)

// BlockBasedTableOptions is the block-layout half of a column's options.
type BlockBasedTableOptions struct {
	BlockSize             uint64
	MetadataBlockSize     uint64
	CacheIndexAndFilterBlocks bool
	PartitionFilters      bool
	UseDeltaEncoding      bool
	IndexType             string // always "two-level-index-search"
	DataBlockIndexType    DataBlockIndexType
	BlockCache            CacheHandle // nil disables the block cache explicitly
}

// CacheHandle is the subset of cache.NativeCache the engine package needs,
// kept as a narrow interface so engine does not import cache directly
// (both depend on column; this avoids binding engine to cache's
// concurrency internals).
type CacheHandle interface {
	Capacity() int64
	ShardBits() uint8
	Name() string
}

// UniversalCompactionOptions tunes universal-style compaction; it is only
// meaningful when the descriptor's Compaction style is
// column.CompactionUniversal.
type UniversalCompactionOptions struct {
	StopStyle                string // always "total"
	MinMergeWidth            uint
	MaxMergeWidth            uint
	MaxSizeAmplificationPct  int32 // always 10000 (effectively disabled)
	CompressionSizePercent   int32 // always -1
	SizeRatio                int32 // always 1
}

// CompressionOptions is the main + bottommost compression knobs.
type CompressionOptions struct {
	Type               string
	Level              int32
	ZlibWindowBits     int32 // always -14
	BottommostType     string
	BottommostLevel    *int32
	BottommostZstdDictTrainingDisabled bool
}

// Options is the complete, concrete set of options engine.Configure
// produces for one column. It is what a real opener would pass, verbatim,
// into the native engine's column-family-open call.
type Options struct {
	Table BlockBasedTableOptions

	WriteBufferMin  int
	WriteBufferMax  int
	WriteBufferSize *uint64

	TargetFileSizeBase       uint64
	TargetFileSizeMultiplier int32
	Level0FileNumTrigger     int32
	DynamicLevelBytes        bool // always false (static sizing)
	TTL                      uint64
	MaxBytesForLevelBase     uint64
	MaxBytesForLevelMultiplier float64 // always 1.0
	LevelMultiplierAdditional []int32

	CompactionStyle string
	CompactionPri   uint8
	Universal       UniversalCompactionOptions

	Compression CompressionOptions

	ArenaBlockSize uint64 // always 2 MiB, applied via options string
}

// Named option strings forwarded verbatim to the engine. Two separate
// strings, two separate calls, so each failure is attributable to its own
// EngineOptions error: one applied inside the table-options step, one at
// the end of the whole assembly.
const (
	ReadaheadOptionsString = "{{block_based_table_factory={num_file_reads_for_auto_readahead=0;" +
		"max_auto_readahead_size=524288;initial_auto_readahead_size=16384}}}"
	ArenaOptionsString = "{{arena_block_size=2097152;}}"
)

const arenaBlockSizeBytes = 2 << 20
