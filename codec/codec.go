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
// Package codec implements the fixed-format, zero-copy tuple codec used to
// serialize composite record-store keys and values: a flat byte buffer
// partitioned into length-free records joined by a single reserved
// separator byte.
//
// There is no framing header and no length prefixes. A decoder that wants
// only a prefix of a composite value (for range scans) reads the leading
// fields it cares about and calls Ignore/IgnoreAll on the rest, without
// allocating.
package codec

import "errors"

// Sep is the reserved record separator. It cannot appear inside a valid
// UTF-8 codepoint, so string records are safely self-terminating, and it
// never appears inside valid JSON output either.
const Sep byte = 0xFF

var (
	// ErrEOF is returned when a decoder demands more bytes than remain.
	ErrEOF = errors.New("codec: unexpected end of record buffer")
	// ErrUTF8 is returned when a string record is not valid UTF-8.
	ErrUTF8 = errors.New("codec: record is not valid utf-8")
	// ErrTrailing is returned when top-level decode completes but leaves
	// unconsumed bytes beyond a single, optional trailing separator.
	ErrTrailing = errors.New("codec: trailing bytes not decoded")
	// ErrNestedJSON is returned when the embedded JSON sub-decoder rejects
	// a map/struct record.
	ErrNestedJSON = errors.New("codec: nested json record rejected")
)

// unsupported panics; it exists for the handful of target kinds the codec
// intentionally refuses (bool, fixed-width small ints, floats, enums,
// options...). Refusing them surfaces schema mistakes instead of silently
// inventing an encoding for them.
func unsupported(kind string) {
	panic("codec: unsupported decode target: " + kind)
}
