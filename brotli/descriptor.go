// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package brotli

import "math/bits"

// complexCodeOrder is the permutation in which code lengths for the 18-symbol
// code-length alphabet are read, RFC section 3.5.
var complexCodeOrder = [18]int{
	1, 2, 3, 4, 0, 5, 17, 6, 16, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// readPrefixCode reads one prefix code descriptor good for an alphabet of
// size num symbols, RFC section 3.5, and returns a ready-to-use decoder.
func readPrefixCode(br *bitReader, num int) *prefixDecoder {
	pd := new(prefixDecoder)

	hskip := br.ReadBits(2)
	if hskip == 1 {
		readSimplePrefixCode(br, pd, num)
		return pd
	}

	// Complex prefix code: read code lengths for the 18-symbol code-length
	// alphabet (in complexCodeOrder, skipping the first hskip entries),
	// using the fixed code-length code, then use those lengths to build a
	// second prefix code that yields the actual per-symbol lengths.
	var clens [18]uint
	nsym := 18 - int(hskip)
	left := 1 << 5
	numCodes := 0
	n := 0
	for n < nsym && left > 0 {
		sym := decCLens.Decode(br)
		clens[complexCodeOrder[n]] = uint(sym)
		n++
		if sym != 0 {
			left -= 32 >> sym
			numCodes++
		}
	}
	if left < 0 || (left != 0 && numCodes != 1) {
		panic(ErrCorrupt)
	}

	var codeLens []prefixCode
	for sym, l := range clens {
		if l > 0 {
			codeLens = append(codeLens, prefixCode{sym: uint16(sym), len: uint8(l)})
		}
	}
	var clPD prefixDecoder
	clPD.Init(codeLens, true)

	// Now read num actual code lengths using the code-length code just
	// built; symbols 16/17 are chained run-length repeats of the previous
	// non-zero length and of zero, respectively (RFC section 3.5).
	lens := make([]uint, num)
	left = 1 << maxPrefixBits
	var prevLen uint = 8
	var repeat int
	var repeatLen uint
	total := 0
	for total < num && left > 0 {
		sym := clPD.Decode(br)
		if sym < 16 {
			repeat = 0
			lens[total] = uint(sym)
			total++
			if sym != 0 {
				prevLen = uint(sym)
				left -= (1 << maxPrefixBits) >> uint(sym)
			}
			continue
		}

		extraBits := 2
		newLen := prevLen
		if sym == 17 {
			extraBits = 3
			newLen = 0
		}
		if repeatLen != newLen {
			repeat = 0
			repeatLen = newLen
		}
		old := repeat
		if repeat > 0 {
			repeat -= 2
			repeat <<= uint(extraBits)
		}
		repeat += int(br.ReadBits(uint(extraBits))) + 3
		delta := repeat - old
		if total+delta > num {
			panic(ErrCorrupt)
		}
		for i := 0; i < delta; i++ {
			lens[total] = repeatLen
			total++
		}
		if repeatLen != 0 {
			left -= delta << (maxPrefixBits - int(repeatLen))
		}
	}
	if left < 0 {
		panic(ErrCorrupt)
	}

	var codes []prefixCode
	for sym, l := range lens {
		if l > 0 {
			codes = append(codes, prefixCode{sym: uint16(sym), len: uint8(l)})
		}
	}
	pd.Init(codes, true)
	return pd
}

// readSimplePrefixCode reads the "simple" prefix code form (HSKIP==1 in the
// encoded stream, nsym in [1..4] explicit symbols), RFC section 3.4.
func readSimplePrefixCode(br *bitReader, pd *prefixDecoder, num int) {
	abits := uint(bits.Len(uint(num - 1)))
	nsym := int(br.ReadBits(2)) + 1

	syms := make([]uint16, nsym)
	seen := make(map[uint16]bool, nsym)
	for i := range syms {
		s := uint16(br.ReadBits(abits))
		if int(s) >= num || seen[s] {
			panic(ErrCorrupt)
		}
		seen[s] = true
		syms[i] = s
	}

	var lens []uint
	switch nsym {
	case 1:
		lens = simpleLens1[:]
	case 2:
		lens = simpleLens2[:]
	case 3:
		lens = simpleLens3[:]
	case 4:
		if br.ReadBits(1) == 1 {
			lens = simpleLens4b[:]
		} else {
			lens = simpleLens4a[:]
		}
	}

	type pair struct {
		sym uint16
		len uint
	}
	pairs := make([]pair, nsym)
	for i, s := range syms {
		pairs[i] = pair{s, lens[i]}
	}
	if nsym == 4 {
		// Canonical ordering sort network per RFC section 3.4 (type 4).
		order := func(i, j int) {
			if pairs[i].sym > pairs[j].sym {
				pairs[i], pairs[j] = pairs[j], pairs[i]
			}
		}
		order(0, 1)
		order(2, 3)
		order(0, 2)
		order(1, 3)
		order(1, 2)
	} else {
		for i := 0; i < len(pairs); i++ {
			for j := i + 1; j < len(pairs); j++ {
				if pairs[j].sym < pairs[i].sym {
					pairs[i], pairs[j] = pairs[j], pairs[i]
				}
			}
		}
	}

	codes := make([]prefixCode, nsym)
	for i, p := range pairs {
		codes[i] = prefixCode{sym: p.sym, len: uint8(p.len)}
	}
	pd.Init(codes, true)
}
