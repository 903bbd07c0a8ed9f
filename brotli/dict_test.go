// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package brotli

import "testing"

// TestDictWordTransform exercises the first 4-byte word of the static
// dictionary under the identity transform and under uppercaseFirst, which
// must affect exactly one leading character of the word.
func TestDictWordTransform(t *testing.T) {
	var vectors = []struct {
		desc string
		id   int // Transform id in transformLUT
		want string
	}{
		{"identity transform copies the word verbatim", 0, "abcd"},
		{"uppercaseFirst transform upcases only the leading byte", 9, "Abcd"},
	}

	word := dictWord(4, 0)
	var buf [maxWordSize]byte
	for i, v := range vectors {
		tr := transformLUT[v.id]
		if tr.prefix != "" || tr.suffix != "" {
			t.Fatalf("test %d (%q): transform %d has a non-empty prefix/suffix", i, v.desc, v.id)
		}
		n := transformWord(buf[:], word, v.id)
		if got := string(buf[:n]); got != v.want {
			t.Errorf("test %d (%q): got %q, want %q", i, v.desc, got, v.want)
		}
	}
}
