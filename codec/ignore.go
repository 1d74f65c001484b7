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

// Ignore and IgnoreAll are the two distinguished skip directives. They
// exist as named types (rather than bare function calls) so callers
// decoding a composite key with codec.Unmarshal can declare a struct field
// typed Ignore/IgnoreAll and get the same skip-without-allocating behavior
// the hand-written Decoder.Ignore()/IgnoreAll() calls give.
//
// Ignore consumes one record inside a tuple, or the whole remaining buffer
// at the top level. IgnoreAll always consumes everything that's left.
// Their zero values carry no data; they exist purely as markers.
type Ignore struct{}

type IgnoreAll struct{}
