// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package brotli

// compareMismatch reports the offset of the first byte at which a Compare
// call's expected output diverged from the decoded stream.
type compareMismatch struct {
	offset int
}

func (e compareMismatch) Error() string  { return ErrCompareMiss.Error() }
func (e compareMismatch) Status() Status { return StatusCompareMismatch }
