// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package br

import (
	"bytes"
	"testing"
)

// writeTrailer appends a minimal trailer to buf whose only check-type bit
// is CheckCRC32_1, optionally chained back to the header at headerOffset by
// a ContentOff reverse offset. It mirrors the byte layout Merge's trailer
// write produces: mask, [bvarint offset], [bvarint length], [check-of-checks
// bytes], [repeated mask], omitting the repeat only in the one degenerate
// case (ContentTrail|CheckID with nothing else set) that this helper never
// constructs.
func writeTrailer(t *testing.T, buf *bytes.Buffer, headerOffset int64) {
	t.Helper()
	raw := byte(ContentTrail | CheckCRC32_1)
	dist := int64(-1)
	if headerOffset >= 0 {
		raw |= ContentOff
	}
	mask := raw ^ parity(raw)

	maskOffset := int64(buf.Len())
	if headerOffset >= 0 {
		dist = maskOffset - headerOffset
	}
	buf.WriteByte(mask)
	if headerOffset >= 0 {
		if err := writeBvarint(buf, uint64(dist)); err != nil {
			t.Fatalf("writeBvarint: %v", err)
		}
	}
	buf.WriteByte(0x00) // 1-byte check-of-checks value; scan never validates it.
	buf.WriteByte(mask) // Repeated mask, since trail != ContentTrail|7.
}

func TestScanSingleSegment(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Signature[:])
	buf.Write([]byte{0x01, 0x02, 0x03, 0x04, 0x05}) // Stand-in header + stream bytes.
	trailerOffset := int64(buf.Len())
	writeTrailer(t, &buf, 4)

	segs, err := scan(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []segment{{offset: 4}, {offset: trailerOffset}}
	if len(segs) != len(want) || segs[0] != want[0] || segs[1] != want[1] {
		t.Errorf("scan = %v, want %v", segs, want)
	}
}

func TestScanMultiSegment(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Signature[:])

	header1Offset := int64(buf.Len())
	buf.Write([]byte{0xaa, 0xbb, 0xcc}) // Stand-in first header + stream bytes.

	header2Offset := int64(buf.Len())
	raw2 := byte(ContentOff)
	mask2 := raw2 ^ parity(raw2)
	buf.WriteByte(mask2)
	if err := writeVarint(&buf, uint64(header2Offset-header1Offset)); err != nil {
		t.Fatalf("writeVarint: %v", err)
	}
	buf.Write([]byte{0xdd, 0xee}) // Stand-in second header's stream bytes.

	trailerOffset := int64(buf.Len())
	writeTrailer(t, &buf, header2Offset)

	segs, err := scan(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []segment{{offset: header1Offset}, {offset: header2Offset}, {offset: trailerOffset}}
	if len(segs) != len(want) {
		t.Fatalf("scan returned %d segments, want %d: %v", len(segs), len(want), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segs[%d] = %v, want %v", i, segs[i], want[i])
		}
	}
}

func TestScanBadSignature(t *testing.T) {
	buf := append([]byte(nil), Signature[:]...)
	buf[0] ^= 0xff
	if _, err := scan(bytes.NewReader(buf), int64(len(buf))); err != errBadSignature {
		t.Errorf("scan on a corrupt signature: got %v, want errBadSignature", err)
	}
}

func TestScanBadTrailerParity(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Signature[:])
	buf.Write([]byte{0x01, 0x02})
	writeTrailer(t, &buf, 4)
	b := buf.Bytes()
	b[len(b)-1] ^= 0x01 // Flip a low bit of the repeated trailing mask, breaking its parity.

	if _, err := scan(bytes.NewReader(b), int64(len(b))); err != errBadTrailer {
		t.Errorf("scan on a parity-broken trailer: got %v, want errBadTrailer", err)
	}
}

func TestScanMissingOffset(t *testing.T) {
	// A trailer at an offset beyond the first header (at > 4) that carries
	// no ContentOff bit leaves scan with no way back to that header.
	var buf bytes.Buffer
	buf.Write(Signature[:])
	buf.Write([]byte{0x01, 0x02, 0x03})
	writeTrailer(t, &buf, -1) // headerOffset < 0 omits ContentOff entirely.

	if _, err := scan(bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != errMissingOffset {
		t.Errorf("scan on a trailer missing its offset: got %v, want errMissingOffset", err)
	}
}

func TestScanBadChainParity(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Signature[:])

	header1Offset := int64(buf.Len())
	buf.Write([]byte{0xaa})

	header2Offset := int64(buf.Len())
	raw2 := byte(ContentOff)
	mask2 := raw2 ^ parity(raw2)
	mask2 ^= 0x01 // Corrupt the chain header's own parity.
	buf.WriteByte(mask2)
	if err := writeVarint(&buf, uint64(header2Offset-header1Offset)); err != nil {
		t.Fatalf("writeVarint: %v", err)
	}

	writeTrailer(t, &buf, header2Offset)

	if _, err := scan(bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != errBadParity {
		t.Errorf("scan on a chain header with broken parity: got %v, want errBadParity", err)
	}
}
