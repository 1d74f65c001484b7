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

import "encoding/binary"
import "encoding/json"

// Encoder appends records to a growing byte buffer, joining successive
// records with exactly one Sep byte. There are no length prefixes and no
// trailing framing; the caller decides the field order, and the decoder on
// the other end must agree on it positionally.
type Encoder struct {
	buf   []byte
	wrote bool
}

// NewEncoder returns an empty Encoder. Passing a non-zero sizeHint avoids a
// few reallocations for callers that know roughly how large the composite
// value will be.
func NewEncoder(sizeHint int) *Encoder {
	return &Encoder{buf: make([]byte, 0, sizeHint)}
}

func (e *Encoder) sep() {
	if e.wrote {
		e.buf = append(e.buf, Sep)
	}
	e.wrote = true
}

// PutUint64 appends an 8-byte big-endian record.
func (e *Encoder) PutUint64(v uint64) *Encoder {
	e.sep()
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
	return e
}

// PutInt64 appends an 8-byte big-endian two's-complement record. Negative
// values sort non-monotonically under plain byte comparison; prefer
// PutUint64 for fields that must remain sortable as a database key.
func (e *Encoder) PutInt64(v int64) *Encoder {
	return e.PutUint64(uint64(v))
}

// PutString appends the raw UTF-8 bytes of s as one record.
func (e *Encoder) PutString(s string) *Encoder {
	e.sep()
	e.buf = append(e.buf, s...)
	return e
}

// PutBytes appends b verbatim as one record. Unlike PutTail, this is meant
// for a single field among others, not the remainder of the tuple; the
// caller is responsible for ensuring b does not itself need to be split
// back out (i.e. it should be the last field, or a JSON/string field will
// not reliably find its own boundary if b contains Sep).
func (e *Encoder) PutBytes(b []byte) *Encoder {
	e.sep()
	e.buf = append(e.buf, b...)
	return e
}

// PutTail appends the remaining opaque bytes of a tuple, including any
// interior separators. Only valid as the final field.
func (e *Encoder) PutTail(b []byte) *Encoder {
	return e.PutBytes(b)
}

// PutJSON marshals v and appends it as a single record. JSON's own
// serialization never emits the 0xFF byte for valid UTF-8 output, so the
// record remains self-terminating.
func (e *Encoder) PutJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.PutBytes(b)
	return nil
}

// Bytes returns the encoded buffer. The returned slice aliases the
// Encoder's internal storage; callers that need to keep using the Encoder
// afterward should copy it.
func (e *Encoder) Bytes() []byte { return e.buf }
