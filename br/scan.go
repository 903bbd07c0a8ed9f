// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package br

import "io"

// segment records the file offset of one chained header (or of the
// trailer) discovered by scan.
type segment struct {
	offset int64
}

// scan walks a .br file backwards from its trailer to its first header,
// following each ContentOff reverse offset, and returns the offsets of
// every header, starting with the first (offset 4, right after the
// signature), followed by the trailer's offset, in forward order. It mirrors braid.c's scan().
func scan(ra io.ReaderAt, size int64) ([]segment, error) {
	var sig [4]byte
	if _, err := ra.ReadAt(sig[:], 0); err != nil {
		return nil, err
	}
	if sig != Signature {
		return nil, errBadSignature
	}

	br := newBackReader(ra, size)

	// Skip any zero padding, then read the final trailer mask.
	var trail byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		if b != 0 {
			trail = b
			break
		}
	}
	if !evenParity(trail) || trail&ContentTrail == 0 || trail&ContentExtraMask != 0 {
		return nil, errBadTrailer
	}
	if trail&ContentCheck != CheckID {
		// Skip the check-of-checks value.
		n := 1 << (trail & 3)
		for i := 0; i < n; i++ {
			if _, err := br.ReadByte(); err != nil {
				return nil, err
			}
		}
	}
	if trail&ContentLen != 0 {
		if _, err := readBvarintBackward(br); err != nil {
			return nil, err
		}
	}
	var dist uint64
	if trail&ContentOff != 0 {
		v, err := readBvarintBackward(br)
		if err != nil {
			return nil, err
		}
		dist = v
	}
	if trail != ContentTrail|7 {
		lead, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		if lead != trail {
			return nil, errBadTrailer
		}
	}
	at := br.pos // Offset of the start of the trailer.
	if at > 4 && trail&ContentOff == 0 {
		return nil, errMissingOffset
	}

	var segs []segment
	segs = append(segs, segment{offset: at})
	if dist != 0 {
		at -= int64(dist)
		segs = append(segs, segment{offset: at})
	}

	for at > 4 {
		var mask [1]byte
		if _, err := ra.ReadAt(mask[:], at); err != nil {
			return nil, err
		}
		if !evenParity(mask[0]) || mask[0]&ContentTrail != 0 {
			return nil, errBadParity
		}
		if mask[0]&ContentOff == 0 {
			return nil, errMissingOffset
		}
		fr := newForwardReaderAt(ra, at+1)
		v, err := readVarint(fr)
		if err != nil {
			return nil, err
		}
		at -= int64(v)
		segs = append(segs, segment{offset: at})
	}
	if at != 4 {
		return nil, errBadOffset
	}

	// segs is currently in back-to-front order (trailer first); reverse it
	// so the caller sees headers in forward stream order.
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return segs, nil
}

// forwardReaderAt adapts an io.ReaderAt plus a cursor into an io.ByteReader
// reading forward, used for the short fixed reads scan needs mid-scan.
type forwardReaderAt struct {
	ra  io.ReaderAt
	pos int64
}

func newForwardReaderAt(ra io.ReaderAt, pos int64) *forwardReaderAt {
	return &forwardReaderAt{ra: ra, pos: pos}
}

func (f *forwardReaderAt) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := f.ra.ReadAt(buf[:], f.pos); err != nil {
		return 0, err
	}
	f.pos++
	return buf[0], nil
}

// readN reads and returns the next n bytes, advancing the cursor past them.
func (f *forwardReaderAt) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := f.ra.ReadAt(buf, f.pos); err != nil {
		return nil, err
	}
	f.pos += int64(n)
	return buf, nil
}
