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
package codec

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeTwoStrings(t *testing.T) {
	e := NewEncoder(0)
	e.PutString("abc").PutString("de")
	got := e.Bytes()
	want := []byte{0x61, 0x62, 0x63, 0xFF, 0x64, 0x65}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x want % x", got, want)
	}

	var a, b string
	err := DecodeFull(got, func(d *Decoder) error {
		d.Tuple()
		var err error
		if a, err = d.StrCopy(); err != nil {
			return err
		}
		if b, err = d.StrCopy(); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if a != "abc" || b != "de" {
		t.Fatalf("got (%q,%q)", a, b)
	}
}

func TestEncodeUint64String(t *testing.T) {
	e := NewEncoder(0)
	e.PutUint64(1).PutString("x")
	got := e.Bytes()
	want := []byte{0, 0, 0, 0, 0, 0, 0, 1, 0xFF, 0x78}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x want % x", got, want)
	}

	var n uint64
	var s string
	err := DecodeFull(got, func(d *Decoder) error {
		d.Tuple()
		var err error
		if n, err = d.Uint64(); err != nil {
			return err
		}
		if s, err = d.StrCopy(); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || s != "x" {
		t.Fatalf("got (%d,%q)", n, s)
	}
}

func TestTrailingSeparatorTolerated(t *testing.T) {
	buf := []byte{0x61, 0xFF} // "a" then a lone trailing separator
	var s string
	err := DecodeFull(buf, func(d *Decoder) error {
		d.Tuple()
		var err error
		s, err = d.StrCopy()
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if s != "a" {
		t.Fatalf("got %q", s)
	}
}

func TestEOFOnShortInteger(t *testing.T) {
	buf := []byte{1, 2, 3}
	err := DecodeFull(buf, func(d *Decoder) error {
		_, err := d.Uint64()
		return err
	})
	if !errors.Is(err, ErrEOF) {
		t.Fatalf("got %v, want ErrEOF", err)
	}
}

func TestNonUTF8String(t *testing.T) {
	buf := []byte{0x80, 0x81}
	err := DecodeFull(buf, func(d *Decoder) error {
		_, err := d.Str()
		return err
	})
	if !errors.Is(err, ErrUTF8) {
		t.Fatalf("got %v, want ErrUTF8", err)
	}
}

func TestIgnoreSkipsOneRecord(t *testing.T) {
	buf := []byte{0x61, 0xFF, 0x62, 0xFF, 0x63} // "a" SEP "b" SEP "c"
	var a, c string
	err := DecodeFull(buf, func(d *Decoder) error {
		d.Tuple()
		var err error
		if a, err = d.StrCopy(); err != nil {
			return err
		}
		d.Ignore()
		if c, err = d.StrCopy(); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if a != "a" || c != "c" {
		t.Fatalf("got (%q,%q)", a, c)
	}
}

func TestNestedJSONMap(t *testing.T) {
	type inner struct {
		K int `json:"k"`
	}
	e := NewEncoder(0)
	if err := e.PutJSON(inner{K: 1}); err != nil {
		t.Fatal(err)
	}
	var got inner
	err := DecodeFull(e.Bytes(), func(d *Decoder) error {
		return d.JSON(&got)
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.K != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestIgnoreIdempotence(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{0xFF},
		{1, 2, 3, 0xFF, 4},
		{0x61, 0x62, 0x63},
	}
	for _, buf := range cases {
		if err := DecodeIgnore(buf); err != nil {
			t.Fatalf("DecodeIgnore(% x) = %v, want nil", buf, err)
		}
	}
}

func TestSequenceWithIgnoreAllTail(t *testing.T) {
	// (A, B, IgnoreAll) succeeds against a buffer with valid A, SEP, valid B,
	// plus anything after.
	buf := append([]byte("AA"), Sep)
	buf = append(buf, "BB"...)
	buf = append(buf, Sep, 0x01, 0x02, 0x03)

	var a, b string
	err := DecodeFull(buf, func(d *Decoder) error {
		d.Tuple()
		var err error
		if a, err = d.StrCopy(); err != nil {
			return err
		}
		if b, err = d.StrCopy(); err != nil {
			return err
		}
		d.IgnoreAll()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if a != "AA" || b != "BB" {
		t.Fatalf("got (%q,%q)", a, b)
	}
}

func TestBorrowOnlyStrings(t *testing.T) {
	buf := []byte("hello")
	buf = append(buf, Sep)
	buf = append(buf, "world"...)

	var first string
	err := DecodeFull(buf, func(d *Decoder) error {
		d.Tuple()
		var err error
		first, err = d.Str()
		if err != nil {
			return err
		}
		_, err = d.Str()
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if first != "hello" {
		t.Fatalf("got %q", first)
	}
	// mutate the original buffer; the borrowed string must move with it
	// since it's a view, not a copy.
	buf[0] = 'X'
	if first != "Xello" {
		t.Fatalf("expected borrowed string to alias input, got %q", first)
	}
}

type twoStrings struct {
	A string
	B string
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	in := twoStrings{A: "abc", B: "de"}
	buf, err := Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x61, 0x62, 0x63, 0xFF, 0x64, 0x65}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got % x want % x", buf, want)
	}
	var out twoStrings
	if err := Unmarshal(buf, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Fatalf("got %+v want %+v", out, in)
	}
}

type withIgnore struct {
	A   string
	Mid Ignore
	C   string
}

func TestUnmarshalWithIgnoreField(t *testing.T) {
	buf := []byte{0x61, 0xFF, 0x62, 0xFF, 0x63}
	var out withIgnore
	if err := Unmarshal(buf, &out); err != nil {
		t.Fatal(err)
	}
	if out.A != "a" || out.C != "c" {
		t.Fatalf("got %+v", out)
	}
}
