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
	"fmt"
	"reflect"
)

// Marshal and Unmarshal give the generic "encode(value) -> bytes,
// decode<T>(bytes) -> T" surface named in the codec's external interface.
// They drive the same Encoder/Decoder as hand-written call sites, walking
// an ordered Go struct's exported fields and dispatching on an optional
// `wire:"..."` struct tag (one of "u64", "i64", "str", "bytes", "json",
// "tail", "ignore"), falling back to a type-directed guess when the tag is
// absent.
//
// Unmarshal always runs a full decode (it calls Finished internally) — it
// is for round-tripping a whole composite value, not for partial prefix
// decodes. Prefix/range-scan callers should use Decoder directly with
// Ignore/IgnoreAll.
func Marshal(v any) ([]byte, error) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("codec: Marshal requires a struct, got %s", rv.Kind())
	}
	e := NewEncoder(64)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		kind := fieldWireKind(f)
		fv := rv.Field(i)
		switch kind {
		case "u64":
			e.PutUint64(fv.Uint())
		case "i64":
			e.PutInt64(fv.Int())
		case "str":
			e.PutString(fv.String())
		case "bytes", "tail":
			e.PutBytes(fv.Bytes())
		case "json":
			if err := e.PutJSON(fv.Interface()); err != nil {
				return nil, fmt.Errorf("codec: field %s: %w", f.Name, err)
			}
		case "ignore", "ignoreall":
			return nil, fmt.Errorf("codec: field %s: Ignore/IgnoreAll are decode-only directives, not encodable", f.Name)
		default:
			unsupported(kind)
		}
	}
	return e.Bytes(), nil
}

// Unmarshal decodes buf into the struct pointed to by v, field by field in
// declaration order, and asserts the buffer was fully consumed.
func Unmarshal(buf []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("codec: Unmarshal requires a pointer to struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	return DecodeFull(buf, func(d *Decoder) error {
		if rt.NumField() > 1 {
			d.Tuple()
		}
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			kind := fieldWireKind(f)
			fv := rv.Field(i)
			switch kind {
			case "u64":
				val, err := d.Uint64()
				if err != nil {
					return fmt.Errorf("field %s: %w", f.Name, err)
				}
				fv.SetUint(val)
			case "i64":
				val, err := d.Int64()
				if err != nil {
					return fmt.Errorf("field %s: %w", f.Name, err)
				}
				fv.SetInt(val)
			case "str":
				val, err := d.StrCopy()
				if err != nil {
					return fmt.Errorf("field %s: %w", f.Name, err)
				}
				fv.SetString(val)
			case "bytes":
				tail := d.BytesTail()
				cp := make([]byte, len(tail))
				copy(cp, tail)
				fv.SetBytes(cp)
			case "tail":
				tail := d.BytesTail()
				cp := make([]byte, len(tail))
				copy(cp, tail)
				fv.SetBytes(cp)
			case "json":
				if err := d.JSON(fv.Addr().Interface()); err != nil {
					return fmt.Errorf("field %s: %w", f.Name, err)
				}
			case "ignore":
				d.Ignore()
			case "ignoreall":
				d.IgnoreAll()
			default:
				unsupported(kind)
			}
		}
		return nil
	})
}

func fieldWireKind(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("wire"); ok {
		return tag
	}
	switch f.Type {
	case reflect.TypeOf(Ignore{}):
		return "ignore"
	case reflect.TypeOf(IgnoreAll{}):
		return "ignoreall"
	}
	switch f.Type.Kind() {
	case reflect.Uint64, reflect.Uint, reflect.Uint32:
		return "u64"
	case reflect.Int64, reflect.Int, reflect.Int32:
		return "i64"
	case reflect.String:
		return "str"
	case reflect.Slice:
		if f.Type.Elem().Kind() == reflect.Uint8 {
			return "bytes"
		}
	}
	return "json"
}
