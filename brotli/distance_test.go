// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package brotli

import "testing"

func TestDistRingUpdate(t *testing.T) {
	var vectors = []struct {
		desc    string
		sym     int
		dist    int
		max     int
		wantPtr int
		wantVal int // r.vals[wantPtr] after the call
	}{
		{"nonzero symbol within window updates the ring", 4, 7, 100, 0, 7},
		{"recall symbol zero never updates the ring", 0, 7, 100, 3, 4},
		{"nonzero symbol beyond the window never updates the ring", 4, 7, 6, 3, 4},
	}

	for i, v := range vectors {
		r := newDistRing()
		r.update(v.sym, v.dist, v.max)
		if r.ptr != v.wantPtr {
			t.Errorf("test %d (%q): ptr = %d, want %d", i, v.desc, r.ptr, v.wantPtr)
		}
		if got := r.vals[v.wantPtr]; got != v.wantVal {
			t.Errorf("test %d (%q): vals[%d] = %d, want %d", i, v.desc, v.wantPtr, got, v.wantVal)
		}
	}
}

// TestDistRingReplay exercises the four short distance-recall codes against
// a ring seeded with three distinct distances, confirming that symbol 0
// recalls the most recently inserted distance, symbol 1 the one before that,
// and so on, without the recall itself perturbing the ring.
func TestDistRingReplay(t *testing.T) {
	r := newDistRing()
	before := r.last() // The distance that was in the ring prior to D1.

	var br bitReader
	const max = 1 << 20
	d1 := decodeDistance(&br, r, 16, 0, 3, max) // Direct code: dist = sym-15.
	r.update(16, d1, max)
	d2 := decodeDistance(&br, r, 17, 0, 3, max)
	r.update(17, d2, max)
	d3 := decodeDistance(&br, r, 18, 0, 3, max)
	r.update(18, d3, max)

	var vectors = []struct {
		sym  int
		want int
	}{
		{0, d3},
		{1, d2},
		{2, d1},
		{3, before},
	}
	for _, v := range vectors {
		if got := decodeDistance(&br, r, v.sym, 0, 3, max); got != v.want {
			t.Errorf("recall symbol %d: got %d, want %d", v.sym, got, v.want)
		}
	}
}
