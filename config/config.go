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

// Package config holds the global, hot-reloadable settings that
// column.Descriptor.Patch and cache.Provision read at DB-open (and at
// every reload): compression tier/level/bottommost handling, the cache
// capacity modifier, and the legacy per-column capacity overrides.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/docker/go-units"
	"gopkg.in/yaml.v3"

	"github.com/relaydb/cfkv/cache"
	"github.com/relaydb/cfkv/column"
)

// Compression holds the global compression knobs that
// column.Descriptor.Patch applies to every descriptor at DB open (via
// Global.CompressionConfig).
type Compression struct {
	Algo              string `yaml:"algo"`
	Level             int32  `yaml:"level"`
	BottommostEnabled bool   `yaml:"bottommost_enabled"`
	BottommostLevel   int32  `yaml:"bottommost_level"`
}

// rawOverrides is the on-disk shape of the legacy capacity override
// block. Each value is an entity count (cache.Provision scales it to bytes
// by the column's key and value size hints), written as a plain integer
// or with a go-units size suffix ("100000", "2MB") and parsed with
// github.com/docker/go-units.
type rawOverrides struct {
	EventIDPDUID          string `yaml:"eventid_pduid"`
	EventIDShortEventID   string `yaml:"eventid_shorteventid"`
	ShortEventIDEventID   string `yaml:"shorteventid_eventid"`
	ShortEventIDAuthChain string `yaml:"shorteventid_authchain"`
	ShortStateKeyStateKey string `yaml:"shortstatekey_statekey"`
	StateKeyShortStateKey string `yaml:"statekey_shortstatekey"`
	ServerNameEventData   string `yaml:"servernameevent_data"`
	PDU                   string `yaml:"pdu"`
}

// raw is the on-disk YAML document shape.
type raw struct {
	Compression            Compression  `yaml:"compression"`
	CacheCapacityModifier   float64      `yaml:"cache_capacity_modifier"`
	SharedCacheCapacity     string       `yaml:"shared_cache_capacity"`
	SharedCacheShards       uint32       `yaml:"shared_cache_shards"`
	LegacyCapacityOverrides rawOverrides `yaml:"legacy_capacity_overrides"`
}

// Global is the parsed, ready-to-use configuration: human byte-size
// strings already resolved to integers by go-units.
type Global struct {
	Compression           Compression
	CacheCapacityModifier  float64
	SharedCacheCapacity    int64
	SharedCacheShards      uint32
	LegacyOverrides        cache.LegacyOverrides
}

// Default matches the zero-config behavior described for a fresh
// deployment: zstd compression, no bottommost override, a capacity
// modifier of 1.0 (no scaling), and every legacy override unset.
func Default() Global {
	return Global{
		Compression: Compression{
			Algo:  "zstd",
			Level: 0,
		},
		CacheCapacityModifier: 1.0,
		SharedCacheCapacity:   512 << 20,
		SharedCacheShards:     8,
	}
}

// Load reads and parses a YAML config file, resolving every byte-size
// field with go-units' RAMInBytes (it accepts both SI-style and IEC
// suffixes, e.g. "64MB" or "64MiB", and reads both as powers of 1024).
func Load(path string) (Global, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Global{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML config document into a Global.
func Parse(data []byte) (Global, error) {
	var r raw
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Global{}, fmt.Errorf("config: parsing yaml: %w", err)
	}

	g := Default()
	if r.Compression.Algo != "" {
		g.Compression = r.Compression
	}
	if r.CacheCapacityModifier != 0 {
		g.CacheCapacityModifier = r.CacheCapacityModifier
	}

	if r.SharedCacheCapacity != "" {
		n, err := units.RAMInBytes(r.SharedCacheCapacity)
		if err != nil {
			return Global{}, fmt.Errorf("config: shared_cache_capacity: %w", err)
		}
		g.SharedCacheCapacity = n
	}
	if r.SharedCacheShards != 0 {
		g.SharedCacheShards = r.SharedCacheShards
	}

	overrides, err := parseOverrides(r.LegacyCapacityOverrides)
	if err != nil {
		return Global{}, err
	}
	g.LegacyOverrides = overrides

	return g, nil
}

func parseOverrides(r rawOverrides) (cache.LegacyOverrides, error) {
	var out cache.LegacyOverrides
	fields := []struct {
		name string
		src  string
		dst  *uint32
	}{
		{"eventid_pduid", r.EventIDPDUID, &out.EventIDPDUID},
		{"eventid_shorteventid", r.EventIDShortEventID, &out.EventIDShortEventID},
		{"shorteventid_eventid", r.ShortEventIDEventID, &out.ShortEventIDEventID},
		{"shorteventid_authchain", r.ShortEventIDAuthChain, &out.ShortEventIDAuthChain},
		{"shortstatekey_statekey", r.ShortStateKeyStateKey, &out.ShortStateKeyStateKey},
		{"statekey_shortstatekey", r.StateKeyShortStateKey, &out.StateKeyShortStateKey},
		{"servernameevent_data", r.ServerNameEventData, &out.ServerNameEventData},
		{"pdu", r.PDU, &out.PDU},
	}
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		n, err := units.RAMInBytes(f.src)
		if err != nil {
			return cache.LegacyOverrides{}, fmt.Errorf("config: legacy_capacity_overrides.%s: %w", f.name, err)
		}
		*f.dst = uint32(n)
	}
	return out, nil
}

// CompressionConfig adapts Global to column.CompressionConfig, the narrow
// view column.Descriptor.Patch actually needs.
func (g Global) CompressionConfig() column.CompressionConfig {
	return column.CompressionConfig{
		Algo:              g.Compression.Algo,
		Level:             g.Compression.Level,
		BottommostEnabled: g.Compression.BottommostEnabled,
		BottommostLevel:   g.Compression.BottommostLevel,
	}
}

// ProvisionConfig adapts Global to cache.ProvisionConfig.
func (g Global) ProvisionConfig() cache.ProvisionConfig {
	return cache.ProvisionConfig{
		CacheCapacityModifier: g.CacheCapacityModifier,
		Overrides:             g.LegacyOverrides,
	}
}

// Store is a mutex-guarded holder for the currently active Global,
// swapped atomically by Watcher on every reload.
type Store struct {
	mu      sync.RWMutex
	current Global
}

// NewStore wraps an initial configuration.
func NewStore(g Global) *Store {
	return &Store{current: g}
}

// Get returns the currently active configuration.
func (s *Store) Get() Global {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the active configuration.
func (s *Store) Set(g Global) {
	s.mu.Lock()
	s.current = g
	s.mu.Unlock()
}
