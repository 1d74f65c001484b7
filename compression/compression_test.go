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
package compression

import (
	"bytes"
	"testing"

	"github.com/relaydb/cfkv/column"
)

func roundTrip(t *testing.T, k column.CompressionKind, payload []byte) {
	t.Helper()
	c, err := For(k)
	if err != nil {
		t.Fatalf("For(%d): %v", k, err)
	}
	var buf bytes.Buffer
	if err := c.Compress(&buf, payload); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	got, err := c.Decompress(buf.Bytes())
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, payload)
	}
}

func TestRoundTripEveryTier(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 50)
	tiers := []column.CompressionKind{
		column.CompressionZstd,
		column.CompressionSnappy,
		column.CompressionZlib,
		column.CompressionLz4,
		column.CompressionNone,
	}
	for _, k := range tiers {
		roundTrip(t, k, payload)
	}
}

func TestBz2DecodeOnly(t *testing.T) {
	c, err := For(column.CompressionBz2)
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if err := c.Compress(&bytes.Buffer{}, []byte("x")); err == nil {
		t.Fatalf("expected bz2 Compress to fail")
	}
}

func TestUnknownTierErrors(t *testing.T) {
	if _, err := For(column.CompressionKind(99)); err == nil {
		t.Fatalf("expected an error for an unknown tier")
	}
}

func TestXZRoundTrip(t *testing.T) {
	c := XZ()
	var buf bytes.Buffer
	payload := []byte("exported via cfinspect")
	if err := c.Compress(&buf, payload); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	got, err := c.Decompress(buf.Bytes())
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, payload)
	}
}
