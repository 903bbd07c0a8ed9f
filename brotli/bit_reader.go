// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package brotli

import "io"
import "bufio"

// TODO(dsnet): If we compute the minimum number of bits we can safely read, is
// it large enough that we can just use an io.Reader alone without performance
// detriments? It would be nice to avoid using io.ByteReader.
type byteReader interface {
	io.Reader
	io.ByteReader
}

type bitReader struct {
	rd io.Reader
	rb io.ByteReader

	offset  int64 // Number of bytes read from the underlying reader
	bufBits uint32
	numBits uint
}

func (br *bitReader) Init(r io.Reader) {
	if rr, ok := r.(byteReader); ok {
		*br = bitReader{rd: rr, rb: rr}
	} else {
		rr = bufio.NewReader(r)
		*br = bitReader{rd: rr, rb: rr}
	}
}

// fill ensures at least nb bits are buffered, panicking on premature EOF.
func (br *bitReader) fill(nb uint) {
	for br.numBits < nb {
		c, err := br.rb.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			panic(err)
		}
		br.offset++
		br.bufBits |= uint32(c) << br.numBits
		br.numBits += 8
	}
}

// ReadBits reads nb bits from the underlying reader.
// If an IO error occurs, then it panics.
func (br *bitReader) ReadBits(nb uint) uint {
	br.fill(nb)
	val := uint(br.bufBits & uint32(1<<nb-1))
	br.bufBits >>= nb
	br.numBits -= nb
	return val
}

// PeekBits returns the next nb bits without consuming them. It may read
// ahead past the true end of the stream; callers must not rely on an error
// from PeekBits alone to detect truncation; it returns zero bits beyond
// numBits already buffered rather than panicking, so Discard can still
// consume fewer bits than requested here.
func (br *bitReader) PeekBits(nb uint) uint32 {
	for br.numBits < nb {
		c, err := br.rb.ReadByte()
		if err != nil {
			break // let a subsequent ReadBits/Discard surface the EOF
		}
		br.offset++
		br.bufBits |= uint32(c) << br.numBits
		br.numBits += 8
	}
	if nb >= 32 {
		return br.bufBits
	}
	return br.bufBits & (uint32(1)<<nb - 1)
}

// Discard consumes nb bits previously observed via PeekBits.
func (br *bitReader) Discard(nb uint) {
	br.fill(nb)
	br.bufBits >>= nb
	br.numBits -= nb
}

// Read reads whole bytes once the reader is byte-aligned, first draining
// any bytes still held in the bit buffer.
func (br *bitReader) Read(buf []byte) (int, error) {
	cnt := 0
	for cnt < len(buf) && br.numBits >= 8 {
		buf[cnt] = byte(br.bufBits)
		br.bufBits >>= 8
		br.numBits -= 8
		cnt++
	}
	if cnt == len(buf) {
		return cnt, nil
	}
	n, err := br.rd.Read(buf[cnt:])
	br.offset += int64(n)
	return cnt + n, err
}

// ReadPads reads 0-7 bits from the underlying reader to achieve byte-alignment.
func (br *bitReader) ReadPads() uint {
	nb := br.numBits % 8
	val := uint(br.bufBits & uint32(1<<nb-1))
	br.bufBits >>= nb
	br.numBits -= nb
	return val
}
