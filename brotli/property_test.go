// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package brotli

import (
	"encoding/hex"
	"testing"

	"github.com/dsnet/brotli/internal/testutil"
)

// TestDecodeRandomNeverPanics feeds the decoder arbitrary short byte strings
// and requires that every attempt ends in one of the three sanctioned
// outcomes (success, truncated input, or a malformed stream) rather than an
// unrecovered panic.
func TestDecodeRandomNeverPanics(t *testing.T) {
	const numTrials = 512
	const maxLen = 48

	rand := testutil.NewRand(1)
	for i := 0; i < numTrials; i++ {
		n := rand.Intn(maxLen + 1)
		buf := rand.Bytes(n)

		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("trial %d (%d random bytes, %x): decode panicked: %v", i, n, buf, r)
				}
			}()
			_, err := Decode(buf)
			if err == nil {
				return
			}
			switch statusOf(err) {
			case StatusTruncatedInput, StatusMalformedStream:
				// Sanctioned outcome.
			default:
				t.Errorf("trial %d (%d random bytes, %x): status %v for err %v", i, n, buf, statusOf(err), err)
			}
		}()
	}
}

// TestCompareMismatchOffset checks that Compare reports success against the
// true decoded output and a compareMismatch at the exact offset of the first
// altered byte otherwise.
func TestCompareMismatchOffset(t *testing.T) {
	var vectors = []struct {
		desc  string
		input string // Hex-encoded valid Brotli stream
		want  string // True decoded output
	}{
		{"uncompressed single byte", "0000104103", "A"},
		{"simple prefix literals plus a dictionary copy", "600000006498d8586810801e", "abcabcd"},
	}

	for i, v := range vectors {
		input, _ := hex.DecodeString(v.input)
		want := []byte(v.want)

		if err := Compare(input, want); err != nil {
			t.Errorf("test %d (%q): Compare against the true output: got %v, want nil", i, v.desc, err)
		}

		for mismatchAt := range want {
			altered := append([]byte(nil), want...)
			altered[mismatchAt]++ // Guaranteed to differ: byte arithmetic wraps, never re-matching want.

			err := Compare(input, altered)
			if err == nil {
				t.Errorf("test %d (%q): Compare against altered byte %d: got nil, want a mismatch", i, v.desc, mismatchAt)
				continue
			}
			cm, ok := err.(compareMismatch)
			if !ok {
				t.Errorf("test %d (%q): Compare against altered byte %d: err type %T, want compareMismatch", i, v.desc, mismatchAt, err)
				continue
			}
			if cm.offset != mismatchAt {
				t.Errorf("test %d (%q): Compare against altered byte %d: mismatch offset %d, want %d", i, v.desc, mismatchAt, cm.offset, mismatchAt)
			}
			if err.(interface{ Status() Status }).Status() != StatusCompareMismatch {
				t.Errorf("test %d (%q): Compare against altered byte %d: status %v, want StatusCompareMismatch", i, v.desc, mismatchAt, err.(interface{ Status() Status }).Status())
			}
		}
	}
}
