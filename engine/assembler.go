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
package engine

import (
	"fmt"

	"github.com/relaydb/cfkv/column"
)

// Configure builds the concrete column options from a descriptor already
// patched with config-sourced compression settings (column.Descriptor.Patch)
// and the cache handle cache.Provision resolved for it. cf is the
// already-open column-family handle the two options-string applications
// are scoped to.
//
// Applied in a fixed order: table factory, write buffer, file & level
// sizing, compaction, compression, arena.
func Configure(desc column.Descriptor, cache CacheHandle, eng Engine, cf ColumnFamily) (Options, error) {
	var opts Options

	opts.Table = tableOptions(desc, cache)
	if err := applyOptionsString(eng, cf, ReadaheadOptionsString); err != nil {
		return Options{}, err
	}

	opts.WriteBufferMin = 1
	opts.WriteBufferMax = 2
	opts.WriteBufferSize = desc.WriteSize

	opts.TargetFileSizeBase = desc.FileSize
	opts.TargetFileSizeMultiplier = firstOrOne(desc.FileShape)
	opts.Level0FileNumTrigger = desc.Level0Width
	opts.DynamicLevelBytes = false
	opts.TTL = desc.TTL
	opts.MaxBytesForLevelBase = desc.LevelSize
	opts.MaxBytesForLevelMultiplier = 1.0
	opts.LevelMultiplierAdditional = desc.LevelShape

	opts.CompactionStyle = desc.Compaction.String()
	opts.CompactionPri = desc.CompactionPri
	opts.Universal = UniversalCompactionOptions{
		StopStyle:               "total",
		MinMergeWidth:           desc.MergeWidth.Min,
		MaxMergeWidth:           desc.MergeWidth.Max,
		MaxSizeAmplificationPct: 10000,
		CompressionSizePercent:  -1,
		SizeRatio:               1,
	}

	opts.Compression = compressionOptions(desc)
	if recv, ok := cf.(CompressionReceiver); ok {
		if err := recv.ApplyCompression(desc.Compression); err != nil {
			return Options{}, fmt.Errorf("%w: %v", ErrEngineOptions, err)
		}
	}

	opts.ArenaBlockSize = arenaBlockSizeBytes
	if err := applyOptionsString(eng, cf, ArenaOptionsString); err != nil {
		return Options{}, err
	}

	return opts, nil
}

func firstOrOne(shape []int32) int32 {
	if len(shape) == 0 {
		return 1
	}
	return shape[0]
}

func tableOptions(desc column.Descriptor, cache CacheHandle) BlockBasedTableOptions {
	idxType := BinarySearch
	if desc.BlockIndexHashing {
		idxType = BinaryAndHash
	}
	return BlockBasedTableOptions{
		BlockSize:                 desc.BlockSize,
		MetadataBlockSize:         desc.IndexSize,
		CacheIndexAndFilterBlocks: cache != nil,
		PartitionFilters:          true,
		UseDeltaEncoding:          false,
		IndexType:                 "two-level-index-search",
		DataBlockIndexType:        idxType,
		BlockCache:                cache,
	}
}

func compressionOptions(desc column.Descriptor) CompressionOptions {
	c := CompressionOptions{
		Type:           compressionName(desc.Compression),
		Level:          desc.CompressionLevel,
		ZlibWindowBits: -14,
	}
	if desc.BottommostLevel != nil {
		c.BottommostType = c.Type
		c.BottommostLevel = desc.BottommostLevel
		c.BottommostZstdDictTrainingDisabled = true
	}
	return c
}

func compressionName(k column.CompressionKind) string {
	switch k {
	case column.CompressionSnappy:
		return "snappy"
	case column.CompressionZlib:
		return "zlib"
	case column.CompressionBz2:
		return "bz2"
	case column.CompressionLz4:
		return "lz4"
	case column.CompressionLz4hc:
		return "lz4hc"
	case column.CompressionNone:
		return "none"
	default:
		return "zstd"
	}
}
