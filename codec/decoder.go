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
	"encoding/binary"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Decoder is a pull cursor over a record buffer. It never allocates for
// scalar or string records: strings and byte tails are returned as slices
// borrowed from the input buffer. It holds no locks and never blocks;
// multiple Decoders may run concurrently over disjoint buffers.
//
// Rather than a visitor/callback protocol, callers pull fields off in
// declared order.
type Decoder struct {
	buf    []byte
	pos    int
	inSeq  bool
	fields int // tuple elements begun since Tuple
}

// NewDecoder wraps buf for decoding. buf is borrowed, not copied.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Tuple marks the start of a fixed-arity composite record. It must be
// called at most once per Decoder; nested sequences are not supported and
// calling it twice is a programming error, not a data error, so it
// panics.
func (d *Decoder) Tuple() *Decoder {
	if d.inSeq {
		panic("codec: nested sequences are not supported")
	}
	d.inSeq = true
	return d
}

// More reports whether at least one more record remains in the buffer. It
// is meant for variable-length tuples (e.g. a trailing IgnoreAll, or a
// caller-defined sequence of unknown length); callers decoding a
// fixed-arity tuple normally just call the typed accessors positionally
// without consulting More.
func (d *Decoder) More() bool {
	return d.pos < len(d.buf)
}

// beforeField consumes the inter-record separator that precedes every
// tuple element but the first. Outside of a tuple it is a no-op: a lone
// top-level scalar or string is exactly one record with nothing to skip.
func (d *Decoder) beforeField() {
	if !d.inSeq {
		return
	}
	// Counting elements rather than testing pos != 0 keeps an empty first
	// record from swallowing the separator owed by the second.
	if d.fields > 0 {
		if d.pos >= len(d.buf) || d.buf[d.pos] != Sep {
			panic("codec: missing expected record separator at current position")
		}
		d.pos++
	}
	d.fields++
}

// recordNext consumes the current record: from pos up to (but not
// including) the next Sep, or to the end of the buffer. pos advances to
// just before the separator (or to len(buf)), never past it.
func (d *Decoder) recordNext() []byte {
	rest := d.buf[d.pos:]
	for i, b := range rest {
		if b == Sep {
			d.pos += i
			return rest[:i]
		}
	}
	d.pos = len(d.buf)
	return rest
}

// recordTrail consumes every remaining byte, including interior
// separators.
func (d *Decoder) recordTrail() []byte {
	rest := d.buf[d.pos:]
	d.pos = len(d.buf)
	return rest
}

// Uint64 decodes the current record as 8 big-endian bytes.
func (d *Decoder) Uint64() (uint64, error) {
	d.beforeField()
	if len(d.buf)-d.pos < 8 {
		return 0, fmt.Errorf("%w: need 8 bytes for u64, have %d", ErrEOF, len(d.buf)-d.pos)
	}
	v := binary.BigEndian.Uint64(d.buf[d.pos : d.pos+8])
	d.pos += 8
	return v, nil
}

// Int64 decodes the current record as 8 big-endian two's-complement bytes.
// Negative values do not sort monotonically under byte comparison; this
// method exists for completeness, but Uint64 should be preferred for any
// field that is compared as a database key.
func (d *Decoder) Int64() (int64, error) {
	v, err := d.Uint64()
	return int64(v), err
}

// Str decodes the current record as a borrowed, zero-copy UTF-8 string
// view into the input buffer.
func (d *Decoder) Str() (string, error) {
	d.beforeField()
	rec := d.recordNext()
	if !utf8.Valid(rec) {
		return "", fmt.Errorf("%w: %q", ErrUTF8, rec)
	}
	return unsafeString(rec), nil
}

// StrCopy decodes the current record the same way Str does, but returns an
// owned copy that does not alias buf. Use this when the decoded value must
// outlive the input buffer.
func (d *Decoder) StrCopy() (string, error) {
	s, err := d.Str()
	if err != nil {
		return "", err
	}
	return string([]byte(s)), nil
}

// BytesTail decodes the opaque remainder of the tuple as a borrowed slice,
// including any interior separators. Only meaningful as the last field.
func (d *Decoder) BytesTail() []byte {
	d.beforeField()
	return d.recordTrail()
}

// JSON decodes the current record as a single JSON sub-document into v.
func (d *Decoder) JSON(v any) error {
	d.beforeField()
	rec := d.recordNext()
	if err := json.Unmarshal(rec, v); err != nil {
		return fmt.Errorf("%w: %v", ErrNestedJSON, err)
	}
	return nil
}

// Ignore consumes one record inside a tuple, or every remaining byte at
// the top level — so decoding a bare Ignore directive against any buffer
// always succeeds.
func (d *Decoder) Ignore() {
	d.beforeField()
	if d.inSeq {
		d.recordNext()
	} else {
		d.recordTrail()
	}
}

// IgnoreAll always consumes every remaining byte, regardless of whether
// it's called inside a tuple or at the top level.
func (d *Decoder) IgnoreAll() {
	d.beforeField()
	d.recordTrail()
}

// Finished asserts the buffer was fully consumed: zero bytes remain, or
// exactly one trailing Sep byte remains. It is intended as a correctness
// net on top-level decode entry points, not as something a partial/prefix
// decode needs to call.
func (d *Decoder) Finished() error {
	remain := len(d.buf) - d.pos
	if remain == 0 {
		return nil
	}
	if remain == 1 && d.buf[d.pos] == Sep {
		return nil
	}
	return fmt.Errorf("%w: %d trailing of %d bytes not decoded", ErrTrailing, remain, len(d.buf))
}

// DecodeFull runs fn against a fresh Decoder over buf and, on success,
// asserts the buffer was fully consumed. Use the bare Decoder directly
// for partial/prefix decodes that intentionally leave a suffix unparsed.
func DecodeFull(buf []byte, fn func(*Decoder) error) error {
	d := NewDecoder(buf)
	if err := fn(d); err != nil {
		return err
	}
	return d.Finished()
}

// DecodeIgnore reports whether buf can be skipped entirely as a single
// Ignore directive. It always succeeds for any input.
func DecodeIgnore(buf []byte) error {
	d := NewDecoder(buf)
	d.Ignore()
	return d.Finished()
}
