// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package br

import (
	"crypto/sha256"
	"hash"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
)

// crc32cTable is the Castagnoli polynomial table used for CRC-32C checks.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// xxhash32 computes the XXH32 checksum (seed zero) of a byte sequence. No
// example dependency in the retrieved pack implements XXH32 (only the v2
// package for XXH64 is present), so this is transcribed directly from the
// published XXH32 algorithm; it buffers its input and hashes it in one
// pass rather than maintaining true streaming state, since every caller in
// this package presents a bounded buffer (a header, one segment's decoded
// data, or the run of per-segment check values).
type xxhash32 struct {
	buf []byte
}

func newXxhash32() *xxhash32 { return &xxhash32{} }

func (x *xxhash32) Write(p []byte) (int, error) {
	x.buf = append(x.buf, p...)
	return len(p), nil
}

func (x *xxhash32) Reset() { x.buf = x.buf[:0] }

const (
	xxh32Prime1 = 2654435761
	xxh32Prime2 = 2246822519
	xxh32Prime3 = 3266489917
	xxh32Prime4 = 668265263
	xxh32Prime5 = 374761393
)

func xxh32Round(acc, input uint32) uint32 {
	acc += input * xxh32Prime2
	acc = (acc << 13) | (acc >> 19)
	acc *= xxh32Prime1
	return acc
}

func (x *xxhash32) Sum32() uint32 {
	buf := x.buf
	var h uint32
	n := len(buf)
	if n >= 16 {
		p1 := uint32(xxh32Prime1)
		v1 := p1 + xxh32Prime2
		v2 := uint32(xxh32Prime2)
		v3 := uint32(0)
		v4 := -p1
		for len(buf) >= 16 {
			v1 = xxh32Round(v1, le32(buf[0:4]))
			v2 = xxh32Round(v2, le32(buf[4:8]))
			v3 = xxh32Round(v3, le32(buf[8:12]))
			v4 = xxh32Round(v4, le32(buf[12:16]))
			buf = buf[16:]
		}
		h = rotl32(v1, 1) + rotl32(v2, 7) + rotl32(v3, 12) + rotl32(v4, 18)
	} else {
		h = xxh32Prime5
	}
	h += uint32(n)
	for len(buf) >= 4 {
		h += le32(buf[0:4]) * xxh32Prime3
		h = rotl32(h, 17) * xxh32Prime4
		buf = buf[4:]
	}
	for len(buf) > 0 {
		h += uint32(buf[0]) * xxh32Prime5
		h = rotl32(h, 11) * xxh32Prime1
		buf = buf[1:]
	}
	h ^= h >> 15
	h *= xxh32Prime2
	h ^= h >> 13
	h *= xxh32Prime3
	h ^= h >> 16
	return h
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func rotl32(x uint32, r uint) uint32 {
	return (x << r) | (x >> (32 - r))
}

// checkState accumulates the bytes of one segment's uncompressed data (or a
// header) under all four check backends at once, so the content mask's
// check-type bits can be resolved to a digest without redoing the hashing
// per type.
type checkState struct {
	xxh32 *xxhash32
	xxh64 *xxhash.Digest
	crc   uint32
	sha   hash.Hash
}

func newCheckState() *checkState {
	return &checkState{
		xxh32: newXxhash32(),
		xxh64: xxhash.New(),
		sha:   sha256.New(),
	}
}

func (c *checkState) Write(p []byte) (int, error) {
	c.xxh32.Write(p)
	c.xxh64.Write(p)
	c.crc = crc32.Update(c.crc, crc32cTable, p)
	c.sha.Write(p)
	return len(p), nil
}

// value returns the check bytes (little-endian, truncated as required)
// selected by the low 3 bits of a content mask.
func (c *checkState) value(checkType byte) []byte {
	switch checkType {
	case CheckXXH32_1, CheckXXH32_2, CheckXXH32_4:
		n := checkLen(checkType)
		return leBytes(uint64(c.xxh32.Sum32()), n)
	case CheckXXH64_8:
		return leBytes(c.xxh64.Sum64(), 8)
	case CheckCRC32_1, CheckCRC32_2, CheckCRC32_4:
		n := 1 << (checkType & 3)
		return leBytes(uint64(c.crc), n)
	case CheckID:
		return c.sha.Sum(nil)
	default:
		panic("br: unknown check type")
	}
}

func leBytes(v uint64, n int) []byte {
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
	return b
}
