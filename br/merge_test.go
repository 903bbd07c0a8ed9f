// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package br

import (
	"bytes"
	"testing"
)

// buildSingleSegmentFile returns a minimal, self-contained .br-shaped file
// holding one segment: a bare header mask (no flags, so Merge's copySegment
// reads it as an ordinary header with no offset, extra fields, or CheckID
// byte to skip) followed by stand-in stream+check payload bytes (never a
// real brotli stream, since neither scan nor Merge decodes it). When
// withLen is true the trailer carries a ContentLen field set to length,
// independent of len(payload), so tests can drive Merge's length
// aggregation without needing a real decoder round trip.
func buildSingleSegmentFile(t *testing.T, payload []byte, length uint64, withLen bool) []byte {
	t.Helper()
	if len(payload) < 1 {
		t.Fatalf("payload must hold at least the 1-byte CheckXXH32_1 check value")
	}
	var buf bytes.Buffer
	buf.Write(Signature[:])
	buf.WriteByte(0x00) // Header mask: no offset, no extra fields, CheckXXH32_1.
	buf.Write(payload)

	raw := byte(ContentTrail | ContentOff | CheckCRC32_1)
	if withLen {
		raw |= ContentLen
	}
	mask := raw ^ parity(raw)
	maskOffset := int64(buf.Len())
	buf.WriteByte(mask)
	if err := writeBvarint(&buf, uint64(maskOffset-4)); err != nil {
		t.Fatalf("writeBvarint offset: %v", err)
	}
	if withLen {
		if err := writeBvarint(&buf, length); err != nil {
			t.Fatalf("writeBvarint length: %v", err)
		}
	}
	buf.WriteByte(0x00) // 1-byte check-of-checks stand-in.
	buf.WriteByte(mask)
	return buf.Bytes()
}

func TestMergeSingleInput(t *testing.T) {
	input := buildSingleSegmentFile(t, []byte{0x11, 0x22, 0x33}, 0, false)

	out, err := Merge([][]byte{input})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !bytes.HasPrefix(out, Signature[:]) {
		t.Fatalf("Merge output does not start with the signature")
	}

	segs, err := scan(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("scan(Merge output): %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("scan(Merge output) returned %d segments, want 2 (one header, one trailer)", len(segs))
	}
	if segs[0].offset != 4 {
		t.Errorf("first header offset = %d, want 4", segs[0].offset)
	}

	trailMask := out[segs[1].offset]
	if !evenParity(trailMask) {
		t.Errorf("merged trailer mask fails parity")
	}
	if trailMask&ContentCheck != CheckID {
		t.Errorf("merged trailer for a single input has check type %#x, want CheckID (no check-of-checks expected)", trailMask&ContentCheck)
	}
}

func TestMergeTwoInputs(t *testing.T) {
	in1 := buildSingleSegmentFile(t, []byte{0xaa, 0xbb}, 10, true)
	in2 := buildSingleSegmentFile(t, []byte{0xcc, 0xdd, 0xee}, 20, true)

	out, err := Merge([][]byte{in1, in2})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	segs, err := scan(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("scan(Merge output): %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("scan(Merge output) returned %d segments, want 3 (two headers, one trailer)", len(segs))
	}
	if segs[0].offset != 4 {
		t.Errorf("first header offset = %d, want 4", segs[0].offset)
	}

	trailOffset := segs[2].offset
	trailMask := out[trailOffset]
	if !evenParity(trailMask) {
		t.Fatalf("merged trailer mask fails parity")
	}
	if trailMask&ContentCheck != CheckXXH32_4 {
		t.Errorf("merged trailer for two inputs has check type %#x, want CheckXXH32_4 (check-of-checks expected)", trailMask&ContentCheck)
	}
	if trailMask&ContentOff == 0 {
		t.Errorf("merged trailer is missing ContentOff despite a written header chain")
	}
	if trailMask&ContentLen == 0 {
		t.Fatalf("merged trailer is missing ContentLen despite both inputs reporting a length")
	}

	fr := newForwardReaderAt(bytes.NewReader(out), trailOffset+1)
	dist, err := readBvarint(fr)
	if err != nil {
		t.Fatalf("readBvarint(offset): %v", err)
	}
	if dist != uint64(trailOffset-segs[1].offset) {
		t.Errorf("trailer reverse offset = %d, want %d", dist, trailOffset-segs[1].offset)
	}
	total, err := readBvarint(fr)
	if err != nil {
		t.Fatalf("readBvarint(length): %v", err)
	}
	if total != 30 {
		t.Errorf("merged total length = %d, want 30 (10+20)", total)
	}
}

// TestMergeNoInputs checks that merging zero inputs still produces a valid,
// minimal .br file: the signature plus a bare ContentTrail|CheckID trailer
// mask, since that mask already has even parity and needs no offset,
// length, check-of-checks, or repeated copy.
func TestMergeNoInputs(t *testing.T) {
	out, err := Merge(nil)
	if err != nil {
		t.Fatalf("Merge(nil): %v", err)
	}
	want := append(append([]byte(nil), Signature[:]...), ContentTrail|CheckID)
	if !bytes.Equal(out, want) {
		t.Errorf("Merge(nil) = %x, want %x", out, want)
	}
}
