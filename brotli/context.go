// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package brotli

// Literal context modes, RFC section 7.2.
const (
	litContextLSB6 = iota
	litContextMSB6
	litContextUTF8
	litContextSigned
)

// contextP1LUT and contextP2LUT implement the UTF8 context mode's two
// half-tables (applied to the previous byte and the byte before that,
// respectively, and OR'ed together). contextSignedLUT serves both halves of
// the Signed mode, shifted for the first byte and not for the second.
//
// RFC Appendix C / section 7.2.
var (
	contextP1LUT = [256]byte{
		0, 0, 0, 0, 0, 0, 0, 0, 0, 4, 4, 0, 0, 4, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		8, 12, 16, 12, 12, 20, 12, 16, 24, 28, 12, 12, 32, 12, 36, 12,
		44, 44, 44, 44, 44, 44, 44, 44, 44, 44, 32, 32, 24, 40, 28, 12,
		12, 48, 52, 52, 52, 48, 52, 52, 52, 48, 52, 52, 52, 52, 52, 48,
		52, 52, 52, 52, 52, 48, 52, 52, 52, 52, 52, 24, 12, 28, 12, 12,
		12, 56, 60, 60, 60, 56, 60, 60, 60, 56, 60, 60, 60, 60, 60, 56,
		60, 60, 60, 60, 60, 56, 60, 60, 60, 60, 60, 24, 12, 28, 12, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		2, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
		2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	}
	contextP2LUT = [256]byte{
		0, 0, 1, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 3, 3,
		4, 4, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
		6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
		6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
		7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
		7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
		7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
		7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
		8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
		8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
		8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
		8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
		8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
		8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
		8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
		8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 0,
	}
	contextSignedLUT = [256]byte{
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
		2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
		2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
		2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
		3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
		3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
		3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
		3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
		3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
		3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
		3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
		3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	}
)

func initContextLUTs() {
	// No computed tables; the three LUTs above are transcribed directly.
}

// contextID computes the literal context ID from the two preceding output
// bytes (p1 most recent, p2 before that) for the given context mode,
// RFC section 7.2.
func contextID(p1, p2 byte, mode int) int {
	switch mode {
	case litContextLSB6:
		return int(p1 & 0x3f)
	case litContextMSB6:
		return int(p1 >> 2)
	case litContextUTF8:
		return int(contextP1LUT[p1]) | int(contextP2LUT[p2])
	default: // litContextSigned
		return int(contextSignedLUT[p1])<<3 | int(contextSignedLUT[p2])
	}
}

// readContextMap reads a context map of the given length over the given
// number of trees, RFC section 7.3. The trailing bit selects whether the
// map is stored after an inverse move-to-front transform.
func readContextMap(br *bitReader, out []byte, trees int) {
	rlemax := 0
	if br.ReadBits(1) == 1 {
		rlemax = 1 + int(br.ReadBits(4))
	}

	pd := readPrefixCode(br, rlemax+trees)

	n := 0
	for n < len(out) {
		sym := int(pd.Decode(br))
		switch {
		case sym == 0:
			out[n] = 0
			n++
		case sym <= rlemax:
			zeros := (1 << uint(sym)) + int(br.ReadBits(uint(sym)))
			if n+zeros > len(out) {
				panic(ErrCorrupt)
			}
			for i := 0; i < zeros; i++ {
				out[n] = 0
				n++
			}
		default:
			out[n] = byte(sym - rlemax)
			n++
		}
	}

	if br.ReadBits(1) == 1 {
		inverseMoveToFront(out, trees)
	}
}

// inverseMoveToFront undoes the move-to-front encoding of a context map in
// place, RFC section 7.3. table starts as the identity permutation of
// [0,trees); each symbol names a table slot, and that slot's value is moved
// to the front of the table after being read.
func inverseMoveToFront(out []byte, trees int) {
	table := make([]byte, trees)
	for i := range table {
		table[i] = byte(i)
	}
	for i, sym := range out {
		idx := int(sym)
		v := table[idx]
		for ; idx > 0; idx-- {
			table[idx] = table[idx-1]
		}
		table[0] = v
		out[i] = v
	}
}
