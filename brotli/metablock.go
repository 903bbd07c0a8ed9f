// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package brotli

// insertCopyLengths converts an insert-and-copy symbol into the insert and
// copy lengths it encodes, RFC section 5.
func insertCopyLengths(br *bitReader, sym int) (insert, copy int) {
	iSym := insLenClassLUT[sym>>6] + uint((sym>>3)&7)
	cSym := cpyLenClassLUT[sym>>6] + uint(sym&7)
	insert = readRange(br, insLenRanges[iSym])
	copy = readRange(br, cpyLenRanges[cSym])
	return insert, copy
}

func readRange(br *bitReader, rc rangeCode) int {
	return int(rc.base) + int(br.ReadBits(uint(rc.bits)))
}

// blockCategory tracks the running block-type/block-length state for one of
// the three category alphabets (literal, insert-copy, distance),
// RFC section 9.2.
type blockCategory struct {
	num        int // Number of block types (NBLTYPESx); 1 means no switching
	curr, last int // Current and second-to-last block type
	left       int // Uncompressed units left in the current block
	types      *prefixDecoder
	counts     *prefixDecoder
}

// readBlockCategory reads NBLTYPESx and, if more than one block type is
// present, the block-type and block-length prefix codes and the first block
// length, RFC section 9.2.
func readBlockCategory(br *bitReader) *blockCategory {
	bc := &blockCategory{curr: 0, last: 1}
	bc.num = int(decCounts.Decode(br))
	if bc.num > 1 {
		bc.types = readPrefixCode(br, bc.num+2)
		bc.counts = readPrefixCode(br, numBlkCntSyms)
		bc.left = readBlockLength(br, bc.counts)
	} else {
		bc.left = 1<<62 - 1 // Effectively unlimited, per the reference decoder
	}
	return bc
}

// readBlockLength reads one block-length symbol and converts it, using the
// shared 26-symbol block-count alphabet, RFC section 9.2.
func readBlockLength(br *bitReader, pd *prefixDecoder) int {
	sym := pd.Decode(br)
	return readRange(br, blkLenRanges[sym])
}

// next advances to the next block of this category if the current block is
// exhausted, decoding a new block type (and the following block length)
// using the running last/second-to-last tracking of RFC section 9.2, then
// consumes one unit from the block.
func (bc *blockCategory) next(br *bitReader) {
	if bc.left == 0 {
		sym := int(bc.types.Decode(br))
		var n int
		switch {
		case sym > 1:
			n = sym - 2
		case sym == 1:
			n = (bc.curr + 1) % bc.num
		default:
			n = bc.last
		}
		bc.last = bc.curr
		bc.curr = n
		bc.left = readBlockLength(br, bc.counts)
		if bc.left == 0 {
			panic(ErrCorrupt)
		}
	}
	bc.left--
}
