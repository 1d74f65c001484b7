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
package cache

import (
	"fmt"
	"math"

	"github.com/relaydb/cfkv/column"
)

// ErrConfigOverflow is returned when cache sizing arithmetic overflows. It
// is fatal at DB-open time.
var ErrConfigOverflow = fmt.Errorf("cache: capacity computation overflowed")

// LegacyOverrides is the fixed allow-list of column names with a
// legacy entity-count capacity override in global config.
// pduid_pdu and eventid_outlierpdu intentionally share one entry: the
// source config has exactly one knob, pdu_cache_capacity, for both.
type LegacyOverrides struct {
	EventIDPDUID          uint32
	EventIDShortEventID   uint32
	ShortEventIDEventID   uint32
	ShortEventIDAuthChain uint32
	ShortStateKeyStateKey uint32
	StateKeyShortStateKey uint32
	ServerNameEventData   uint32
	PDU                   uint32 // shared by pduid_pdu and eventid_outlierpdu
}

func (l LegacyOverrides) lookup(name string) (uint32, bool) {
	switch name {
	case "eventid_pduid":
		return l.EventIDPDUID, true
	case "eventid_shorteventid":
		return l.EventIDShortEventID, true
	case "shorteventid_eventid":
		return l.ShortEventIDEventID, true
	case "shorteventid_authchain":
		return l.ShortEventIDAuthChain, true
	case "shortstatekey_statekey":
		return l.ShortStateKeyStateKey, true
	case "statekey_shortstatekey":
		return l.StateKeyShortStateKey, true
	case "servernameevent_data":
		return l.ServerNameEventData, true
	case "pduid_pdu", "eventid_outlierpdu":
		return l.PDU, true
	default:
		return 0, false
	}
}

// ProvisionConfig is the slice of global configuration Provision needs.
type ProvisionConfig struct {
	CacheCapacityModifier float64
	Overrides             LegacyOverrides
}

// capacityBytes resolves the byte capacity for desc, either straight from
// its CacheSize or scaled from a legacy entity count.
func capacityBytes(desc column.Descriptor, cfg ProvisionConfig) (uint64, error) {
	count, overridden := cfg.Overrides.lookup(desc.Name)
	if !overridden {
		return desc.CacheSize, nil
	}

	entitySize := uint64(0)
	if desc.KeySizeHint != nil {
		entitySize += uint64(*desc.KeySizeHint)
	}
	if desc.ValSizeHint != nil {
		entitySize += uint64(*desc.ValSizeHint)
	}

	entities := math.Floor(float64(count) * cfg.CacheCapacityModifier)
	if entities < 0 || entities > math.MaxUint64 {
		return 0, ErrConfigOverflow
	}

	bytes, overflow := mulOverflows(uint64(entities), entitySize)
	if overflow {
		return 0, ErrConfigOverflow
	}
	return bytes, nil
}

// mulOverflows multiplies two uint64s, reporting whether the product
// overflowed 64 bits, the same overflow-aware arithmetic style
// storage/storage-enum.go's enumFastDivMod uses for its rANS slot math.
// Overflow is detected by dividing the product back by a.
func mulOverflows(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	product := a * b
	return product, product/a != b
}

// Provision resolves desc's cache handle against reg: capacity selection,
// scaling, shard validation, and disposition. Descriptors must be passed
// to Provision in column.Table's declaration order; Provision itself does
// not enforce that, since it only sees one descriptor at a time (the
// ordering requirement binds the caller's iteration, not this function).
func Provision(reg *Registry, desc column.Descriptor, cfg ProvisionConfig) (*NativeCache, error) {
	shardBits, err := column.ValidateShardCap(desc.CacheShards)
	if err != nil {
		return nil, err
	}

	size, err := capacityBytes(desc, cfg)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", desc.Name, err)
	}

	switch desc.CacheDisp.Kind {
	case column.CacheUnique:
		// Gated on the resolved size, not desc.CacheSize directly: pduid_pdu
		// declares CacheSize 0 but a legacy "pdu" override still turns it
		// into a cached column, so only the post-resolution value can tell
		// a deliberately uncached column from an override-scaled one.
		if size == 0 {
			return nil, nil
		}
		c := NewNativeCache(desc.Name, int64(size), shardBits)
		reg.register(desc.Name, c)
		return c, nil

	case column.CacheSharedWith:
		other := desc.CacheDisp.Other
		if existing, ok := reg.lookup(other); ok {
			return existing.Acquire(), nil
		}
		c := NewNativeCache(desc.Name, int64(size), shardBits)
		reg.register(desc.Name, c)
		return c, nil

	case column.CacheShared:
		return reg.MustShared().Acquire(), nil

	default:
		return nil, fmt.Errorf("column %q: unknown cache disposition %d", desc.Name, desc.CacheDisp.Kind)
	}
}

// ProvisionTable runs Provision over every descriptor in column.Table, in
// order, and returns the resolved cache for each (nil where the column is
// uncached by design). A DB-open path calls this once, serially, before
// handing each descriptor+cache pair to engine.Configure.
func ProvisionTable(reg *Registry, table []column.Descriptor, cfg ProvisionConfig) (map[string]*NativeCache, error) {
	resolved := make(map[string]*NativeCache, len(table))
	for _, desc := range table {
		if desc.Dropped {
			continue
		}
		c, err := Provision(reg, desc, cfg)
		if err != nil {
			return nil, err
		}
		resolved[desc.Name] = c
	}
	return resolved, nil
}
