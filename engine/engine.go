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
package engine

import "fmt"

// ErrEngineOptions is returned when the native engine rejects an options
// string.
var ErrEngineOptions = fmt.Errorf("engine: native engine rejected options string")

// ColumnFamily is the opaque column-family handle type the external engine
// hands back once a column is open.
type ColumnFamily interface {
	Name() string
}

// Engine is the external LSM engine collaborator this package targets. A
// real implementation wraps cgo RocksDB bindings; fakeengine provides a
// test double that records calls instead of touching disk.
type Engine interface {
	// ApplyOptionsString forwards one of the two named option strings
	// verbatim to the column family's options, the same two-call shape
	// the original source uses (one inside the table-options step, one at
	// the end of the whole assembly).
	ApplyOptionsString(cf ColumnFamily, s string) error
}

// applyOptionsString wraps Engine.ApplyOptionsString, translating any
// engine-side failure into the standard EngineOptions error taxonomy.
func applyOptionsString(eng Engine, cf ColumnFamily, s string) error {
	if err := eng.ApplyOptionsString(cf, s); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineOptions, err)
	}
	return nil
}
