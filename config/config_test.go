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
package config

import "testing"

func TestParseDefaultsWhenFieldsOmitted(t *testing.T) {
	g, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Compression.Algo != "zstd" {
		t.Fatalf("Compression.Algo = %q, want zstd", g.Compression.Algo)
	}
	if g.CacheCapacityModifier != 1.0 {
		t.Fatalf("CacheCapacityModifier = %v, want 1.0", g.CacheCapacityModifier)
	}
}

func TestParseHumanByteSizes(t *testing.T) {
	doc := `
compression:
  algo: lz4
  level: 3
shared_cache_capacity: "256MiB"
shared_cache_shards: 16
legacy_capacity_overrides:
  eventid_pduid: "100000"
  pdu: "2MB"
`
	g, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.SharedCacheCapacity != 256<<20 {
		t.Fatalf("SharedCacheCapacity = %d, want 256MiB", g.SharedCacheCapacity)
	}
	if g.SharedCacheShards != 16 {
		t.Fatalf("SharedCacheShards = %d, want 16", g.SharedCacheShards)
	}
	if g.LegacyOverrides.EventIDPDUID != 100000 {
		t.Fatalf("EventIDPDUID = %d, want 100000", g.LegacyOverrides.EventIDPDUID)
	}
	if g.LegacyOverrides.PDU != 2<<20 {
		t.Fatalf("PDU = %d, want 2097152", g.LegacyOverrides.PDU)
	}
	if g.Compression.Algo != "lz4" || g.Compression.Level != 3 {
		t.Fatalf("Compression = %+v", g.Compression)
	}
}

func TestParseRejectsBadByteSize(t *testing.T) {
	_, err := Parse([]byte(`shared_cache_capacity: "not-a-size"`))
	if err == nil {
		t.Fatalf("expected an error for an unparseable byte size")
	}
}

func TestStoreGetSetIsRaceFree(t *testing.T) {
	s := NewStore(Default())
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			s.Set(Default())
		}
		close(done)
	}()
	for i := 0; i < 1000; i++ {
		_ = s.Get()
	}
	<-done
}
