// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package br

import (
	"bytes"
	"encoding/hex"
	"hash/crc32"
	"testing"

	"github.com/cespare/xxhash/v2"
)

// TestXxhash32 checks the hand-written XXH32 (seed zero) against published
// reference digests.
func TestXxhash32(t *testing.T) {
	var vectors = []struct {
		input string
		want  uint32
	}{
		{"", 0x02cc5d05},
		{"a", 0x550d7456},
		{"abc", 0x32d153ff},
		{"abcabcd", 0x7a15a276},
		{"Hello, world!", 0x31b7405d},
	}

	for i, v := range vectors {
		x := newXxhash32()
		x.Write([]byte(v.input))
		if got := x.Sum32(); got != v.want {
			t.Errorf("test %d (%q): Sum32() = %#08x, want %#08x", i, v.input, got, v.want)
		}
	}
}

// TestCRC32CTable checks the Castagnoli table against the standard
// "123456789" conformance vector for CRC-32C.
func TestCRC32CTable(t *testing.T) {
	got := crc32.Checksum([]byte("123456789"), crc32cTable)
	const want = 0xe3069283
	if got != want {
		t.Errorf("crc32.Checksum(\"123456789\", crc32cTable) = %#08x, want %#08x", got, want)
	}
}

// TestCheckStateValue checks every checkState.value backend against an
// independently computed digest of the same input.
func TestCheckStateValue(t *testing.T) {
	input := []byte("the quick brown fox")

	cs := newCheckState()
	cs.Write(input)

	var vectors = []struct {
		desc      string
		checkType byte
		want      []byte
	}{
		{"xxh32 low byte", CheckXXH32_1, leBytes(uint64(xxhash32Of(input)), 1)},
		{"xxh32 low two bytes", CheckXXH32_2, leBytes(uint64(xxhash32Of(input)), 2)},
		{"xxh32 full", CheckXXH32_4, leBytes(uint64(xxhash32Of(input)), 4)},
		{"xxh64 full", CheckXXH64_8, leBytes(xxhash.Sum64(input), 8)},
		{"crc32c low byte", CheckCRC32_1, leBytes(uint64(crc32.Checksum(input, crc32cTable)), 1)},
		{"crc32c full", CheckCRC32_4, leBytes(uint64(crc32.Checksum(input, crc32cTable)), 4)},
	}
	for i, v := range vectors {
		if got := cs.value(v.checkType); !bytes.Equal(got, v.want) {
			t.Errorf("test %d (%q): value = %x, want %x", i, v.desc, got, v.want)
		}
	}

	// CheckID returns the raw 32-byte SHA-256 digest.
	got := hex.EncodeToString(cs.value(CheckID))
	if len(got) != 64 {
		t.Errorf("CheckID digest is %d hex chars, want 64", len(got))
	}
}

func xxhash32Of(p []byte) uint32 {
	x := newXxhash32()
	x.Write(p)
	return x.Sum32()
}

func TestLeBytes(t *testing.T) {
	var vectors = []struct {
		v    uint64
		n    int
		want string
	}{
		{0x0102030405060708, 8, "0807060504030201"},
		{0xabcd, 2, "cdab"},
		{0xff, 1, "ff"},
	}
	for i, v := range vectors {
		got := hex.EncodeToString(leBytes(v.v, v.n))
		if got != v.want {
			t.Errorf("test %d: leBytes(%#x, %d) = %s, want %s", i, v.v, v.n, got, v.want)
		}
	}
}
