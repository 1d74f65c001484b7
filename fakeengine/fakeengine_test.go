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
package fakeengine

import (
	"errors"
	"strings"
	"testing"

	"github.com/relaydb/cfkv/cache"
	"github.com/relaydb/cfkv/codec"
	"github.com/relaydb/cfkv/column"
	"github.com/relaydb/cfkv/engine"
)

func encodeKey(room string, short uint64) []byte {
	enc := codec.NewEncoder(32)
	enc.PutString(room)
	enc.PutUint64(short)
	return enc.Bytes()
}

func TestPutGetRoundTrip(t *testing.T) {
	eng := New()
	cf := eng.Open("eventid_shorteventid")
	key := encodeKey("!room:example.org", 42)
	if err := cf.Put(key, []byte("payload")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := cf.Get(key)
	if !ok || string(got) != "payload" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
}

func TestScanPrefixOrderedAndBounded(t *testing.T) {
	eng := New()
	cf := eng.Open("shorteventid_eventid")
	for i := uint64(0); i < 5; i++ {
		if err := cf.Put(encodeKey("!r:x", i), []byte{byte(i)}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if err := cf.Put(encodeKey("!other:x", 0), []byte("noise")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	prefixEnc := codec.NewEncoder(16)
	prefixEnc.PutString("!r:x")
	prefix := prefixEnc.Bytes()

	var seen []uint64
	cf.ScanPrefix(prefix, func(key, value []byte) bool {
		d := codec.NewDecoder(key).Tuple()
		if _, err := d.Str(); err != nil {
			t.Fatalf("decoding room: %v", err)
		}
		n, err := d.Uint64()
		if err != nil {
			t.Fatalf("decoding short id: %v", err)
		}
		seen = append(seen, n)
		return true
	})
	if len(seen) != 5 {
		t.Fatalf("scan returned %d keys, want 5", len(seen))
	}
	for i, n := range seen {
		if n != uint64(i) {
			t.Fatalf("scan order[%d] = %d, want %d", i, n, i)
		}
	}
}

func TestApplyOptionsStringFailureWrapsErrEngineOptions(t *testing.T) {
	eng := New()
	cf := eng.Open("pduid_pdu")
	cf.FailOptionString = engine.ReadaheadOptionsString

	desc, _ := column.ByName("pduid_pdu")
	if _, err := engine.Configure(desc, nil, eng, cf); !errors.Is(err, engine.ErrEngineOptions) {
		t.Fatalf("expected ErrEngineOptions when the engine rejects an options string, got %v", err)
	}
}

func TestCompressionAppliedThroughConfigure(t *testing.T) {
	eng := New()
	cf := eng.Open("servernameevent_data")
	desc, ok := column.ByName("servernameevent_data")
	if !ok {
		t.Fatal("missing descriptor")
	}
	patched := desc.Patch(column.CompressionConfig{Algo: "zstd"})
	if _, err := engine.Configure(patched, nil, eng, cf); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	key := []byte("server.example.org")
	payload := []byte(strings.Repeat("highly compressible payload ", 40))
	if err := cf.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	raw, ok := cf.tree.Get(kv{key: key})
	if !ok {
		t.Fatal("key missing from underlying tree")
	}
	if len(raw.value) >= len(payload) {
		t.Fatalf("stored block (%d bytes) is not smaller than the plaintext (%d bytes); compression did not run", len(raw.value), len(payload))
	}

	got, ok := cf.Get(key)
	if !ok || string(got) != string(payload) {
		t.Fatalf("Get after compression = %q, %v, want %q", got, ok, payload)
	}
}

func TestEndToEndProvisionAndConfigure(t *testing.T) {
	reg := cache.NewRegistry()
	reg.InitShared(1<<20, 4)

	resolved, err := cache.ProvisionTable(reg, column.Table, cache.ProvisionConfig{CacheCapacityModifier: 1.0})
	if err != nil {
		t.Fatalf("ProvisionTable: %v", err)
	}

	eng := New()
	for _, d := range column.Table {
		if d.Dropped {
			continue
		}
		cf := eng.Open(d.Name)
		patched := d.Patch(column.CompressionConfig{Algo: "zstd"})
		if _, err := engine.Configure(patched, cache.AsHandle(resolved[d.Name]), eng, cf); err != nil {
			t.Fatalf("Configure(%s): %v", d.Name, err)
		}
		if len(cf.AppliedOptionStrings) != 2 {
			t.Fatalf("Configure(%s) applied %d option strings, want 2", d.Name, len(cf.AppliedOptionStrings))
		}
	}
}
