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

// Package compression wraps the codec libraries a column's CompressionKind
// selects into one Codec interface.
//
// column.Descriptor carries the chosen tier; engine.Configure resolves it
// to a tier name for the native engine's options. fakeengine additionally
// implements engine.CompressionReceiver, so For's codecs run for real
// against every stored block in the in-memory test double rather than
// only inside this package's own tests.
package compression

import (
	"bytes"
	"compress/bzip2"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"

	"github.com/relaydb/cfkv/column"
)

// Codec compresses and decompresses a byte block for one tier.
type Codec interface {
	Compress(dst io.Writer, src []byte) error
	Decompress(src []byte) ([]byte, error)
}

// For looks up the Codec for a compression tier. Bz2 is decompress-only,
// matching Go's stdlib (compress/bzip2 never shipped an encoder); callers
// that need it for writing should pick a different tier, the same
// limitation a descriptor's compression choice needs to respect at
// config-patch time.
func For(k column.CompressionKind) (Codec, error) {
	switch k {
	case column.CompressionZstd:
		return zstdCodec{}, nil
	case column.CompressionSnappy:
		return s2Codec{}, nil
	case column.CompressionZlib:
		return zlibCodec{}, nil
	case column.CompressionLz4, column.CompressionLz4hc:
		return lz4Codec{}, nil
	case column.CompressionBz2:
		return bz2Codec{}, nil
	case column.CompressionNone:
		return noneCodec{}, nil
	default:
		return nil, fmt.Errorf("compression: unknown tier %d", k)
	}
}

type zstdCodec struct{}

func (zstdCodec) Compress(dst io.Writer, src []byte) error {
	w, err := zstd.NewWriter(dst)
	if err != nil {
		return err
	}
	if _, err := w.Write(src); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (zstdCodec) Decompress(src []byte) ([]byte, error) {
	r, err := zstd.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// s2Codec uses klauspost/compress's s2, a snappy-compatible, faster
// codec: s2.Reader can decode plain snappy streams too, so this also
// serves CompressionSnappy.
type s2Codec struct{}

func (s2Codec) Compress(dst io.Writer, src []byte) error {
	w := s2.NewWriter(dst)
	if _, err := w.Write(src); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (s2Codec) Decompress(src []byte) ([]byte, error) {
	r := s2.NewReader(bytes.NewReader(src))
	return io.ReadAll(r)
}

type zlibCodec struct{}

func (zlibCodec) Compress(dst io.Writer, src []byte) error {
	w := zlib.NewWriter(dst)
	if _, err := w.Write(src); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (zlibCodec) Decompress(src []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

type lz4Codec struct{}

func (lz4Codec) Compress(dst io.Writer, src []byte) error {
	w := lz4.NewWriter(dst)
	if _, err := w.Write(src); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (lz4Codec) Decompress(src []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(src))
	return io.ReadAll(r)
}

type bz2Codec struct{}

func (bz2Codec) Compress(io.Writer, []byte) error {
	return fmt.Errorf("compression: bz2 encoding is not supported (compress/bzip2 is decode-only)")
}

func (bz2Codec) Decompress(src []byte) ([]byte, error) {
	return io.ReadAll(bzip2.NewReader(bytes.NewReader(src)))
}

type noneCodec struct{}

func (noneCodec) Compress(dst io.Writer, src []byte) error {
	_, err := dst.Write(src)
	return err
}

func (noneCodec) Decompress(src []byte) ([]byte, error) {
	return src, nil
}

// xzCodec is unused by For: no column.CompressionKind maps to xz, since
// no engine options string selects it as a column tier. It backs cfinspect's
// "export" command instead, which compresses a value with it on the way out
// rather than storing column blocks with it.
type xzCodec struct{}

func (xzCodec) Compress(dst io.Writer, src []byte) error {
	w, err := xz.NewWriter(dst)
	if err != nil {
		return err
	}
	if _, err := w.Write(src); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (xzCodec) Decompress(src []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// XZ returns the standalone xz codec used by cfinspect's export command.
func XZ() Codec { return xzCodec{} }
