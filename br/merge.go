// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package br

import (
	"bytes"
	"io"
)

// Merge losslessly concatenates a series of .br files into a single .br
// file holding all of their embedded brotli streams back to back, with a
// fresh chain of reverse offsets linking every header and a single trailer
// summarizing the whole result. It mirrors braid.c's main()/copy(): each
// input is scanned backwards for its own header chain, then every segment
// is copied forward into the merged output with its header mask, reverse
// offset, and (past the very first segment) name/mod-time extra fields
// rewritten or stripped as appropriate.
//
// An input whose header chain is incomplete (missing a required reverse
// offset) makes the whole merge fail; unlike the reference braid tool,
// which skips such a file with a warning and continues, Merge has no
// side channel to report a partial failure on, so it simply reports the
// error to the caller.
func Merge(inputs [][]byte) ([]byte, error) {
	var out bytes.Buffer
	out.Write(Signature[:])

	var last int64  // Offset of the most recently written header, 0 if none yet
	var count int    // Number of brotli streams copied, capped at 2 for trailer purposes
	var total uint64 // Running sum of uncompressed lengths
	haveLen := true   // Whether every input so far reported its own length
	double := newXxhash32()

	for _, input := range inputs {
		ra := bytes.NewReader(input)
		size := int64(len(input))
		segs, err := scan(ra, size)
		if err != nil {
			return nil, err
		}
		any := len(segs) > 1

		for i := 0; i < len(segs)-1; i++ {
			if err := copySegment(ra, segs[i].offset, segs[i+1].offset, &out, &last, double); err != nil {
				return nil, err
			}
			if count < 2 {
				count++
			}
		}

		if haveLen {
			trailMask, err := readByte(newForwardReaderAt(ra, segs[len(segs)-1].offset))
			if err != nil {
				return nil, err
			}
			if trailMask&ContentLen != 0 {
				fr := newForwardReaderAt(ra, segs[len(segs)-1].offset+1)
				if trailMask&ContentOff != 0 {
					if _, err := readBvarint(fr); err != nil {
						return nil, err
					}
				}
				n, err := readBvarint(fr)
				if err != nil {
					return nil, err
				}
				total += n
			} else if any {
				haveLen = false
			}
		}
	}

	trail := ContentTrail | byte(7)
	if count > 1 {
		trail = ContentTrail | CheckXXH32_4
	}
	if count == 0 {
		haveLen = false
	}
	if haveLen {
		trail |= ContentLen
	}
	if last != 0 {
		trail |= ContentOff
	}
	trail ^= parity(trail)

	here := int64(out.Len())
	out.WriteByte(trail)
	if last != 0 {
		if err := writeBvarint(&out, uint64(here-last)); err != nil {
			return nil, err
		}
	}
	if haveLen {
		if err := writeBvarint(&out, total); err != nil {
			return nil, err
		}
	}
	if count > 1 {
		x := double.Sum32()
		out.WriteByte(byte(x))
		out.WriteByte(byte(x >> 8))
		out.WriteByte(byte(x >> 16))
		out.WriteByte(byte(x >> 24))
	}
	if trail != ContentTrail|7 {
		out.WriteByte(trail)
	}
	return out.Bytes(), nil
}

// copySegment copies one header-plus-stream segment from ra (spanning
// [start, end)) to out, rewriting its header mask and reverse offset to
// fit its new position, stripping the mod-time and name extra fields when
// this is not the very first segment of the merged output, and recomputing
// the header check (when present) over the rewritten bytes. It mirrors
// braid.c's copy(). last is updated to the offset of the header just
// written; double accumulates every segment's check value for the
// merged trailer's check-of-checks.
func copySegment(ra io.ReaderAt, start, end int64, out *bytes.Buffer, last *int64, double *xxhash32) error {
	fr := newForwardReaderAt(ra, start)
	mask, err := fr.ReadByte()
	if err != nil {
		return err
	}
	if mask&ContentOff != 0 {
		if _, err := readVarint(fr); err != nil { // Discard the old distance.
			return err
		}
	}

	head := newXxhash32()
	here := int64(out.Len())
	outMask := mask
	if *last != 0 {
		outMask |= ContentOff
		outMask ^= parity(outMask)
	}
	out.WriteByte(outMask)
	head.Write([]byte{outMask})
	if *last != 0 {
		var buf bytes.Buffer
		if err := writeVarint(&buf, uint64(here-*last)); err != nil {
			return err
		}
		out.Write(buf.Bytes())
		head.Write(buf.Bytes())
	}
	*last = here

	if mask&ContentCheck == CheckID {
		b, err := fr.ReadByte()
		if err != nil {
			return err
		}
		out.WriteByte(b)
		head.Write([]byte{b})
	}

	headActive := false
	if mask&ContentExtraMask != 0 {
		extra, err := fr.ReadByte()
		if err != nil {
			return err
		}
		headActive = extra&ExtraCheck != 0

		strip := extra
		if here != 4 {
			strip &^= ExtraMod | ExtraName
		}
		out.WriteByte(strip)
		if headActive {
			head.Write([]byte{strip})
		}

		if extra&ExtraMod != 0 {
			mod, err := readVarint(fr)
			if err != nil {
				return err
			}
			if strip&ExtraMod != 0 {
				if err := writeChecked(out, head, headActive, func(w io.ByteWriter) error {
					return writeVarint(w, mod)
				}); err != nil {
					return err
				}
			}
		}
		if extra&ExtraName != 0 {
			n, err := readVarint(fr)
			if err != nil {
				return err
			}
			if strip&ExtraName != 0 {
				if err := writeChecked(out, head, headActive, func(w io.ByteWriter) error {
					return writeVarint(w, n)
				}); err != nil {
					return err
				}
				buf, err := fr.readN(int(n))
				if err != nil {
					return err
				}
				out.Write(buf)
				if headActive {
					head.Write(buf)
				}
			} else {
				if _, err := fr.readN(int(n)); err != nil {
					return err
				}
			}
		}
		if extra&ExtraExtra != 0 {
			n, err := readVarint(fr)
			if err != nil {
				return err
			}
			if err := writeChecked(out, head, headActive, func(w io.ByteWriter) error {
				return writeVarint(w, n)
			}); err != nil {
				return err
			}
			buf, err := fr.readN(int(n))
			if err != nil {
				return err
			}
			out.Write(buf)
			if headActive {
				head.Write(buf)
			}
		}
		if extra&ExtraCompressionMask != 0 {
			b, err := fr.ReadByte()
			if err != nil {
				return err
			}
			out.WriteByte(b)
			if headActive {
				head.Write([]byte{b})
			}
		}
		if headActive {
			if _, err := fr.readN(2); err != nil { // Discard the old header check.
				return err
			}
			x := head.Sum32() & 0xffff
			out.WriteByte(byte(x))
			out.WriteByte(byte(x >> 8))
		}
	}

	rest := end - fr.pos
	n := int64(32)
	if mask&ContentCheck != CheckID {
		n = int64(1 << (mask & 3))
	}
	stream, err := fr.readN(int(rest - n))
	if err != nil {
		return err
	}
	out.Write(stream)
	check, err := fr.readN(int(n))
	if err != nil {
		return err
	}
	out.Write(check)
	double.Write(check)
	return nil
}

// writeChecked writes a value to out via fn (which must write to w exactly
// once) and, when active, folds the written bytes into head as well.
func writeChecked(out *bytes.Buffer, head *xxhash32, active bool, fn func(w io.ByteWriter) error) error {
	start := out.Len()
	if err := fn(out); err != nil {
		return err
	}
	if active {
		head.Write(out.Bytes()[start:])
	}
	return nil
}
