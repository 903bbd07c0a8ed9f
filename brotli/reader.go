// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package brotli

import "io"

type Reader struct {
	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	rd     bitReader // Input source
	step   func()    // Single step of decompression work (can panic)
	blkLen int       // Uncompressed bytes left to read in meta-block
	wsize  int       // Sliding window size
	wdict  []byte    // All output produced so far; also the back-reference window
	toRead []byte    // Uncompressed data ready to be emitted from Read
	last   bool      // Last block bit detected
	err    error     // Persistent error

	ring *distRing // Distance ring buffer (lives for the whole stream)

	lit, iac, dist *blockCategory
	litCodes       int // NTREESL
	distCodes      int // NTREESD
	litMap         []byte
	distMap        []byte
	mode           []int // Literal context mode per literal block type
	postfix        int   // NPOSTFIX
	direct         int   // NDIRECT
	distAlphabet   int   // Total distance symbols for this meta-block

	litCode  []*prefixDecoder
	iacCode  []*prefixDecoder
	distCode []*prefixDecoder
}

func NewReader(r io.Reader) *Reader {
	br := new(Reader)
	br.Reset(r)
	return br
}

func (br *Reader) Read(buf []byte) (int, error) {
	for {
		if len(br.toRead) > 0 {
			cnt := copy(buf, br.toRead)
			br.toRead = br.toRead[cnt:]
			br.OutputOffset += int64(cnt)
			return cnt, nil
		}
		if br.err != nil {
			return 0, br.err
		}

		// Perform next step in decompression process.
		func() {
			defer errRecover(&br.err)
			br.step()
		}()
		br.InputOffset = br.rd.offset
	}
}

func (br *Reader) Close() error {
	if br.err == io.EOF || br.err == io.ErrClosedPipe {
		return nil
	}
	err := br.err
	br.err = io.ErrClosedPipe
	return err
}

func (br *Reader) Reset(r io.Reader) error {
	*br = Reader{
		step:  br.readStreamHeader,
		wdict: br.wdict[:0],
	}
	br.rd.Init(r)
	return nil
}

// readStreamHeader reads the Brotli stream header according to RFC section 9.1.
func (br *Reader) readStreamHeader() {
	var wbits uint
	if val := br.rd.ReadBits(1); val != 1 { // Code is "0"
		wbits = 16
		goto done
	}
	if val := br.rd.ReadBits(3); val != 0 { // Code is "1xxx"
		wbits = 18 + uint(val-1)
		goto done
	}
	if val := br.rd.ReadBits(3); val != 1 { // Code is "1000xxx"
		if val == 0 {
			val = 9
		}
		wbits = 10 + uint(val-2)
		goto done
	}
	panic(ErrCorrupt) // Code is "1000100", which is invalid

done:
	// Regardless of what wsize claims, start with a small dictionary to avoid
	// denial-of-service attacks with large memory allocation.
	br.wsize = (1 << wbits) - 16
	if br.wdict == nil {
		br.wdict = make([]byte, 0, 1024)
	}
	br.wdict = br.wdict[:0]
	br.ring = newDistRing()
	br.step = br.readBlockHeader
}

// readBlockHeader reads a meta-block header according to RFC section 9.2.
func (br *Reader) readBlockHeader() {
	if br.last {
		// TODO(dsnet): Flush data?
		if br.rd.ReadPads() > 0 {
			panic(ErrCorrupt)
		}
		br.err = io.EOF
		return
	}

	// Read ISLAST and ISLASTEMPTY.
	if br.last = br.rd.ReadBits(1) == 1; br.last {
		if empty := br.rd.ReadBits(1) == 1; empty {
			br.step = br.readBlockHeader // Next call will terminate stream
			return
		}
	}

	// Read MLEN and MNIBBLES and process meta data.
	var blkLen int // Valid values are [1..1<<24]
	if nibbles := br.rd.ReadBits(2) + 4; nibbles == 7 {
		if reserved := br.rd.ReadBits(1) == 1; reserved {
			panic(ErrCorrupt)
		}

		var skipLen int // Valid values are [0..1<<24]
		if skipBytes := br.rd.ReadBits(2); skipBytes > 0 {
			skipLen = int(br.rd.ReadBits(skipBytes * 8))
			if skipBytes > 1 && skipLen>>((skipBytes-1)*8) == 0 {
				panic(ErrCorrupt) // Shortest representation not used
			}
			skipLen++
		}

		// TODO(dsnet): Should we do something with this meta data?
		// TODO(dsnet): Avoid allocating a large buffer to read data.
		if br.rd.ReadPads() > 0 {
			panic(ErrCorrupt)
		}
		if _, err := io.ReadFull(&br.rd, make([]byte, skipLen)); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			panic(err)
		}
		br.step = br.readBlockHeader
		return
	} else {
		blkLen = int(br.rd.ReadBits(nibbles * 4))
		if nibbles > 4 && blkLen>>((nibbles-1)*4) == 0 {
			panic(ErrCorrupt) // Shortest representation not used
		}
		blkLen++
	}
	br.blkLen = blkLen

	// Read ISUNCOMPRESSED and process uncompressed data.
	if !br.last {
		if uncompressed := br.rd.ReadBits(1) == 1; uncompressed {
			if br.rd.ReadPads() > 0 {
				panic(ErrCorrupt)
			}
			br.step = br.readRawData
			return
		}
	}

	br.readPrefixCodes()
}

// readPrefixCodes reads the prefix codes according to RFC section 9.2.
func (br *Reader) readPrefixCodes() {
	br.lit = readBlockCategory(&br.rd)
	br.iac = readBlockCategory(&br.rd)
	br.dist = readBlockCategory(&br.rd)

	br.postfix = int(br.rd.ReadBits(2))
	br.direct = int(br.rd.ReadBits(4)) << uint(br.postfix)
	br.distAlphabet = 16 + br.direct + (48 << uint(br.postfix))

	br.mode = make([]int, br.lit.num)
	for i := range br.mode {
		br.mode[i] = int(br.rd.ReadBits(2))
	}

	br.litCodes = int(decCounts.Decode(&br.rd))
	br.litMap = make([]byte, br.lit.num<<6)
	if br.litCodes > 1 {
		readContextMap(&br.rd, br.litMap, br.litCodes)
	}

	br.distCodes = int(decCounts.Decode(&br.rd))
	br.distMap = make([]byte, br.dist.num<<2)
	if br.distCodes > 1 {
		readContextMap(&br.rd, br.distMap, br.distCodes)
	}

	br.litCode = make([]*prefixDecoder, br.litCodes)
	for i := range br.litCode {
		br.litCode[i] = readPrefixCode(&br.rd, numLitSyms)
	}
	br.iacCode = make([]*prefixDecoder, br.iac.num)
	for i := range br.iacCode {
		br.iacCode[i] = readPrefixCode(&br.rd, numInsSyms)
	}
	br.distCode = make([]*prefixDecoder, br.distCodes)
	for i := range br.distCode {
		br.distCode[i] = readPrefixCode(&br.rd, br.distAlphabet)
	}

	br.step = br.readBlockData
}

// readRawData reads raw data according to RFC section 9.2.
func (br *Reader) readRawData() {
	if br.blkLen <= 0 {
		br.step = br.readBlockHeader
		return
	}

	// TODO(dsnet): Handle sliding windows properly.
	// TODO(dsnet): Avoid allocating a large buffer to read data.
	if len(br.toRead) > 0 {
		return
	}
	buf := make([]byte, br.blkLen)
	cnt, err := br.rd.Read(buf)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		panic(err)
	}
	start := len(br.wdict)
	br.wdict = append(br.wdict, buf[:cnt]...)
	br.toRead = br.wdict[start:]
	br.blkLen -= cnt
	br.step = br.readRawData
}

// readBlockData decodes the entire meta-block data section in one step,
// according to RFC section 9.2, appending the result to br.wdict and
// handing the newly produced bytes to the caller via br.toRead.
func (br *Reader) readBlockData() {
	mlen := br.blkLen
	start := len(br.wdict)
	var word [maxWordSize]byte

	for mlen > 0 {
		br.iac.next(&br.rd)
		iacSym := int(br.iacCode[br.iac.curr].Decode(&br.rd))
		insert, copy := insertCopyLengths(&br.rd, iacSym)

		if insert > mlen {
			panic(ErrCorrupt)
		}
		mlen -= insert
		for ; insert > 0; insert-- {
			br.lit.next(&br.rd)

			n := 0
			if br.litCodes > 1 {
				var p1, p2 byte
				if len(br.wdict) > 0 {
					p1 = br.wdict[len(br.wdict)-1]
				}
				if len(br.wdict) > 1 {
					p2 = br.wdict[len(br.wdict)-2]
				}
				cid := contextID(p1, p2, br.mode[br.lit.curr])
				n = int(br.litMap[br.lit.curr<<6+cid])
			}
			sym := br.litCode[n].Decode(&br.rd)
			br.wdict = append(br.wdict, byte(sym))
		}

		if mlen == 0 {
			break // Copy length is ignored at the end of the meta-block.
		}

		max := len(br.wdict)
		if max > br.wsize {
			max = br.wsize
		}
		var dist int
		if iacSym < 128 {
			dist = br.ring.last()
		} else {
			br.dist.next(&br.rd)
			n := 0
			if br.distCodes > 1 {
				c := 3
				if copy <= 4 {
					c = copy - 2
				}
				n = int(br.distMap[br.dist.curr<<2+c])
			}
			distSym := int(br.distCode[n].Decode(&br.rd))
			dist = decodeDistance(&br.rd, br.ring, distSym, br.postfix, br.direct, max)
			br.ring.update(distSym, dist, max)
		}

		if dist > max {
			// Static dictionary copy.
			wlen, xid := copy, dist-max-1
			if wlen > maxDictLen || wlen < 4 {
				panic(ErrDictionary)
			}
			idxMask := uint(1)<<dictBitSizes[wlen] - 1
			idx := uint(xid) & idxMask
			xform := xid >> dictBitSizes[wlen]
			if xform >= len(transformLUT) {
				panic(ErrDictionary)
			}
			n := transformWord(word[:], dictWord(wlen, idx), xform)
			if n > mlen {
				panic(ErrCorrupt)
			}
			br.wdict = append(br.wdict, word[:n]...)
			mlen -= n
		} else {
			if copy > mlen {
				panic(ErrCorrupt)
			}
			mlen -= copy
			base := len(br.wdict) - dist
			if base < 0 {
				panic(ErrCorrupt)
			}
			for i := 0; i < copy; i++ {
				br.wdict = append(br.wdict, br.wdict[base+i])
			}
		}
	}

	br.toRead = br.wdict[start:]
	br.step = br.readBlockHeader
}
