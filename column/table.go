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
package column

import (
	"fmt"
	"math/bits"
)

func u(v uint) *uint { return &v }

// Table is the static, declaration-ordered list of per-column descriptors.
// Order matters: SharedWith(other) only resolves correctly when its
// sibling has already been processed. Implementations must never reorder
// or parallelize this slice.
//
// The column names mirror the chat/federation server's actual key-value
// maps: event id / short id / PDU id / state key translation tables, the
// same columns a legacy capacity override table names.
var Table = []Descriptor{
	{
		Name:        "eventid_pduid",
		KeySizeHint: u(8 + 1 + 8), // room key sep short event id, approximate
		ValSizeHint: u(8),
		BlockSize:   512 << 10,
		IndexSize:   512 << 10,
		FileSize:    32 << 20,
		FileShape:   []int32{1},
		Level0Width: 4,
		LevelSize:   128 << 20,
		LevelShape:  []int32{0, 0, 1, 1, 3, 7},
		TTL:         0,
		Compaction:  CompactionLevel,
		CacheDisp:   Unique(),
		CacheSize:   0, // scaled from legacy override table instead
		CacheShards: 8,
	},
	{
		Name:        "eventid_shorteventid",
		KeySizeHint: u(48),
		ValSizeHint: u(8),
		BlockSize:   512 << 10,
		IndexSize:   512 << 10,
		FileSize:    32 << 20,
		FileShape:   []int32{1},
		Level0Width: 4,
		LevelSize:   128 << 20,
		LevelShape:  []int32{0, 0, 1, 1, 3, 7},
		Compaction:  CompactionLevel,
		CacheDisp:   Unique(),
		CacheShards: 8,
	},
	{
		Name:        "shorteventid_eventid",
		KeySizeHint: u(8),
		ValSizeHint: u(48),
		BlockSize:   512 << 10,
		IndexSize:   512 << 10,
		FileSize:    32 << 20,
		FileShape:   []int32{1},
		Level0Width: 4,
		LevelSize:   128 << 20,
		LevelShape:  []int32{0, 0, 1, 1, 3, 7},
		Compaction:  CompactionLevel,
		CacheDisp:   Unique(),
		CacheShards: 8,
	},
	{
		Name:        "shorteventid_authchain",
		KeySizeHint: u(8),
		ValSizeHint: u(64),
		BlockSize:   512 << 10,
		IndexSize:   512 << 10,
		FileSize:    32 << 20,
		FileShape:   []int32{1},
		Level0Width: 4,
		LevelSize:   128 << 20,
		LevelShape:  []int32{0, 0, 1, 1, 3, 7},
		Compaction:  CompactionLevel,
		CacheDisp:   Unique(),
		CacheShards: 8,
	},
	{
		Name:        "shortstatekey_statekey",
		KeySizeHint: u(8),
		ValSizeHint: u(128),
		BlockSize:   512 << 10,
		IndexSize:   512 << 10,
		FileSize:    32 << 20,
		FileShape:   []int32{1},
		Level0Width: 4,
		LevelSize:   128 << 20,
		LevelShape:  []int32{0, 0, 1, 1, 3, 7},
		Compaction:  CompactionLevel,
		CacheDisp:   Unique(),
		CacheShards: 8,
	},
	{
		Name: "statekey_shortstatekey",
		// shares the cache created for shortstatekey_statekey: the two
		// translation tables are accessed in lockstep, so they're cheap to
		// keep mirrored in the same LRU.
		KeySizeHint: u(128),
		ValSizeHint: u(8),
		BlockSize:   512 << 10,
		IndexSize:   512 << 10,
		FileSize:    32 << 20,
		FileShape:   []int32{1},
		Level0Width: 4,
		LevelSize:   128 << 20,
		LevelShape:  []int32{0, 0, 1, 1, 3, 7},
		Compaction:  CompactionLevel,
		CacheDisp:   SharedWith("shortstatekey_statekey"),
		CacheShards: 8,
	},
	{
		Name:        "servernameevent_data",
		KeySizeHint: u(256),
		ValSizeHint: u(512),
		BlockSize:   1 << 20,
		IndexSize:   512 << 10,
		FileSize:    64 << 20,
		FileShape:   []int32{1},
		Level0Width: 4,
		LevelSize:   256 << 20,
		LevelShape:  []int32{0, 0, 1, 1, 3, 7},
		Compaction:  CompactionLevel,
		CacheDisp:   Unique(),
		CacheShards: 4,
	},
	{
		Name:        "pduid_pdu",
		KeySizeHint: u(8 + 1 + 8),
		ValSizeHint: u(2 << 10),
		BlockSize:   1 << 20,
		IndexSize:   512 << 10,
		FileSize:    64 << 20,
		FileShape:   []int32{1},
		Level0Width: 4,
		LevelSize:   256 << 20,
		LevelShape:  []int32{0, 0, 1, 1, 3, 7},
		Compaction:  CompactionUniversal,
		CompactionPri: 0,
		MergeWidth:  MergeWidth{Min: 2, Max: 20},
		CacheDisp:   Unique(),
		CacheShards: 16,
	},
	{
		Name: "eventid_outlierpdu",
		// shares the pdu cache: outlier PDUs and regular PDUs share one
		// legacy capacity knob in config.
		KeySizeHint: u(48),
		ValSizeHint: u(2 << 10),
		BlockSize:   1 << 20,
		IndexSize:   512 << 10,
		FileSize:    64 << 20,
		FileShape:   []int32{1},
		Level0Width: 4,
		LevelSize:   256 << 20,
		LevelShape:  []int32{0, 0, 1, 1, 3, 7},
		Compaction:  CompactionUniversal,
		MergeWidth:  MergeWidth{Min: 2, Max: 20},
		CacheDisp:   SharedWith("pduid_pdu"),
		CacheShards: 16,
	},
	{
		// a genuinely uncached, tiny bookkeeping column: demonstrates the
		// Unique-with-zero-size "no cache" disposition.
		Name:        "global_counters",
		KeySizeHint: u(16),
		ValSizeHint: u(8),
		BlockSize:   64 << 10,
		IndexSize:   64 << 10,
		FileSize:    8 << 20,
		FileShape:   []int32{1},
		Level0Width: 4,
		LevelSize:   32 << 20,
		LevelShape:  []int32{0, 0, 1},
		Compaction:  CompactionFifo,
		CacheDisp:   Unique(),
		CacheSize:   0,
		CacheShards: 1,
	},
}

// ByName looks up a descriptor by column name.
func ByName(name string) (Descriptor, bool) {
	for _, d := range Table {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// ValidateShardCap asserts cache_shards is a power of two no greater than
// 64. It returns the base-2 logarithm the native cache constructor expects.
func ValidateShardCap(shards uint32) (uint8, error) {
	if shards == 0 || bits.OnesCount32(shards) != 1 {
		return 0, fmt.Errorf("column: cache_shards %d is not a power of two", shards)
	}
	if shards > 64 {
		return 0, fmt.Errorf("column: cache_shards %d exceeds the 64-shard cap", shards)
	}
	return uint8(bits.TrailingZeros32(shards)), nil
}

// ValidateTable runs ValidateShardCap over every descriptor in Table; a DB
// open path should call this once at startup.
func ValidateTable() error {
	for _, d := range Table {
		if _, err := ValidateShardCap(d.CacheShards); err != nil {
			return fmt.Errorf("column %q: %w", d.Name, err)
		}
	}
	return nil
}
