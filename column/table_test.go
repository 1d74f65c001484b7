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

import "testing"

func TestValidateTableShardCaps(t *testing.T) {
	if err := ValidateTable(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateShardCapRejectsNonPowerOfTwo(t *testing.T) {
	if _, err := ValidateShardCap(3); err == nil {
		t.Fatal("expected error for non-power-of-two shard count")
	}
	if _, err := ValidateShardCap(128); err == nil {
		t.Fatal("expected error for shard count above 64")
	}
	log2, err := ValidateShardCap(8)
	if err != nil {
		t.Fatal(err)
	}
	if log2 != 3 {
		t.Fatalf("got %d want 3", log2)
	}
}

func TestPatchAppliesConfigCompression(t *testing.T) {
	d, ok := ByName("pduid_pdu")
	if !ok {
		t.Fatal("missing descriptor")
	}
	patched := d.Patch(CompressionConfig{Algo: "lz4", Level: 3, BottommostEnabled: true, BottommostLevel: 19})
	if patched.Compression != CompressionLz4 {
		t.Fatalf("got %v", patched.Compression)
	}
	if patched.CompressionLevel != 3 {
		t.Fatalf("got %d", patched.CompressionLevel)
	}
	if patched.BottommostLevel == nil || *patched.BottommostLevel != 19 {
		t.Fatalf("got %v", patched.BottommostLevel)
	}
	// original table entry must be untouched
	if d.Compression != CompressionZstd {
		t.Fatalf("Patch mutated the shared table entry: %v", d.Compression)
	}
}

func TestCompressionFromConfigDefaultsToZstd(t *testing.T) {
	if CompressionFromConfig("nonsense") != CompressionZstd {
		t.Fatal("expected unrecognized compression string to default to zstd")
	}
}
