// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package brotli

import (
	"bytes"
	"io"
)

// Decode decompresses a complete Brotli stream held in src, returning the
// uncompressed bytes. It is a convenience wrapper around Reader for callers
// that already have the whole stream in memory.
func Decode(src []byte) (dst []byte, err error) {
	defer errRecover(&err)
	r := NewReader(bytes.NewReader(src))
	return io.ReadAll(r)
}

// DecodePrefix decompresses a single Brotli stream found at the start of
// src, which may be followed by further unrelated data (as when several
// streams are concatenated back to back in a .br file). It returns the
// uncompressed bytes along with the number of bytes of src consumed by the
// stream.
func DecodePrefix(src []byte) (dst []byte, used int, err error) {
	defer errRecover(&err)
	r := NewReader(bytes.NewReader(src))
	dst, err = io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	// Whole bytes still buffered by the bit reader were read ahead past the
	// end of the stream and are not part of it.
	return dst, int(r.InputOffset) - int(r.rd.numBits/8), nil
}

// Compare decompresses src and checks that the result is byte-for-byte
// identical to want, without returning the decompressed bytes. It decodes
// src in full first and then compares; a decode error is returned as is,
// otherwise a difference is reported as a compareMismatch
// (Status() == StatusCompareMismatch) at the offset of the first differing
// byte.
func Compare(src, want []byte) (err error) {
	defer errRecover(&err)
	got, err := Decode(src)
	if err != nil {
		return err
	}
	if len(got) != len(want) {
		n := len(got)
		if len(want) < n {
			n = len(want)
		}
		for i := 0; i < n; i++ {
			if got[i] != want[i] {
				panic(compareMismatch{offset: i})
			}
		}
		panic(compareMismatch{offset: n})
	}
	for i := range got {
		if got[i] != want[i] {
			panic(compareMismatch{offset: i})
		}
	}
	return nil
}
