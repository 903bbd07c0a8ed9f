// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package br

import (
	"bytes"
	"io"

	"github.com/dsnet/brotli/brotli"
)

// Segment describes one decoded brotli stream found in a .br file.
type Segment struct {
	Data []byte // Decompressed bytes
	Name string // File name from the Extra field, if present
}

// byteSeq is a forward cursor over an in-memory .br file. hcheck
// accumulates an XXH32 over bytes read since the last Reset, used for the
// optional per-header check; it is fed only by the "checked" read helpers.
type byteSeq struct {
	buf    []byte
	pos    int
	hcheck *xxhash32
}

func newByteSeq(buf []byte) *byteSeq {
	return &byteSeq{buf: buf, hcheck: newXxhash32()}
}

func (s *byteSeq) ReadByte() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}

func (s *byteSeq) readByteChecked() (byte, error) {
	b, err := s.ReadByte()
	if err == nil {
		s.hcheck.Write([]byte{b})
	}
	return b, err
}

func (s *byteSeq) readN(n int) ([]byte, error) {
	if s.pos+n > len(s.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	b := s.buf[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

func (s *byteSeq) readNChecked(n int) ([]byte, error) {
	b, err := s.readN(n)
	if err == nil {
		s.hcheck.Write(b)
	}
	return b, err
}

func (s *byteSeq) readVarintChecked() (uint64, error) {
	start := s.pos
	v, err := readVarint(s)
	if err == nil {
		s.hcheck.Write(s.buf[start:s.pos])
	}
	return v, err
}

// Unwrap reads a complete .br file from r, decompresses and validates every
// embedded brotli stream in turn (per-segment uncompressed length and
// check value, when present, plus the trailer's total length and
// check-of-checks, when present), and returns the decoded segments in
// order. It mirrors broad.c's broad().
func Unwrap(r io.Reader) ([]Segment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return unwrap(data)
}

func unwrap(data []byte) ([]Segment, error) {
	s := newByteSeq(data)

	sig, err := s.readN(4)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(sig, Signature[:]) {
		return nil, errBadSignature
	}

	var segs []Segment
	var total uint64
	double := newCheckState()
	var last, curr int

	for {
		last = curr
		curr = s.pos

		s.hcheck.Reset()
		mask, err := s.readByteChecked()
		if err != nil {
			return nil, err
		}
		if !evenParity(mask) {
			return nil, errBadParity
		}
		if mask&ContentTrail != 0 {
			return segs, readTrailer(s, mask, total, double)
		}
		if last == 0 && mask&ContentOff != 0 {
			return nil, errBadOffset
		}
		if mask&ContentOff != 0 {
			v, err := s.readVarintChecked()
			if err != nil {
				return nil, err
			}
			if uint64(curr-last) != v {
				return nil, errBadOffset
			}
		}
		if mask&ContentCheck == CheckID {
			id, err := s.readByteChecked()
			if err != nil {
				return nil, err
			}
			if id != CheckIDSHA256 {
				return nil, errBadCheckID
			}
		}

		var name string
		if mask&ContentExtraMask != 0 {
			n, err := readExtra(s)
			if err != nil {
				return nil, err
			}
			name = n
		}

		got, used, err := brotli.DecodePrefix(data[s.pos:])
		if err != nil {
			return nil, err
		}
		s.pos += used
		total += uint64(len(got))

		if mask&ContentLen != 0 {
			n, err := readVarint(s)
			if err != nil {
				return nil, err
			}
			if uint64(len(got)) != n {
				return nil, errLenMismatch
			}
		}

		if mask&ContentCheck == CheckID {
			want, err := s.readN(32)
			if err != nil {
				return nil, err
			}
			cs := newCheckState()
			cs.Write(got)
			if !bytes.Equal(cs.value(CheckID), want) {
				return nil, errCheckMismatch
			}
			double.Write(want)
		} else {
			n := checkLen(mask)
			want, err := s.readN(n)
			if err != nil {
				return nil, err
			}
			cs := newCheckState()
			cs.Write(got)
			if !bytes.Equal(cs.value(mask&ContentCheck), want) {
				return nil, errCheckMismatch
			}
			double.Write(want)
		}

		segs = append(segs, Segment{Data: got, Name: name})
	}
}

func readExtra(s *byteSeq) (name string, err error) {
	extra, err := s.readByteChecked()
	if err != nil {
		return "", err
	}
	if !evenParity(extra) || extra&ExtraReserved != 0 {
		return "", errBadParity
	}
	if extra&ExtraMod != 0 {
		if _, err := s.readVarintChecked(); err != nil {
			return "", err
		}
	}
	if extra&ExtraName != 0 {
		n, err := s.readVarintChecked()
		if err != nil {
			return "", err
		}
		buf, err := s.readNChecked(int(n))
		if err != nil {
			return "", err
		}
		name = string(buf)
	}
	if extra&ExtraExtra != 0 {
		n, err := s.readVarintChecked()
		if err != nil {
			return "", err
		}
		if _, err := s.readNChecked(int(n)); err != nil {
			return "", err
		}
	}
	if extra&ExtraCompressionMask != 0 {
		method, err := s.readByteChecked()
		if err != nil {
			return "", err
		}
		if !evenParity(method) || method&(CompressionMethod|CompressionReserved) != 0 {
			return "", errBadParity
		}
	}
	if extra&ExtraCheck != 0 {
		want := s.hcheck.Sum32() & 0xffff
		got, err := s.readN(2)
		if err != nil {
			return "", err
		}
		if uint32(got[0])|uint32(got[1])<<8 != want {
			return "", errCheckMismatch
		}
	}
	return name, nil
}

func readTrailer(s *byteSeq, mask byte, total uint64, double *checkState) error {
	if mask&ContentExtraMask != 0 {
		return errBadTrailer
	}
	if mask&ContentOff != 0 {
		if _, err := readBvarint(s); err != nil {
			return err
		}
	}
	if mask&ContentLen != 0 {
		n, err := readBvarint(s)
		if err != nil {
			return err
		}
		if n != total {
			return errLenMismatch
		}
	}
	if mask&ContentCheck != 7 {
		n := 1 << (mask & 3)
		want, err := s.readN(n)
		if err != nil {
			return err
		}
		if !bytes.Equal(double.value(mask&ContentCheck), want) {
			return errCheckMismatch
		}
	}
	if mask&ContentCheck != 7 || mask&(ContentLen|ContentOff) != 0 {
		b, err := s.ReadByte()
		if err != nil {
			return err
		}
		if b != mask {
			return errBadTrailer
		}
	}
	return nil
}
