// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package br

import "errors"

var (
	errBadSignature  = errors.New("br: not a .br file (bad signature)")
	errBadParity     = errors.New("br: mask byte fails parity check")
	errBadBvarint    = errors.New("br: malformed bidirectional varint")
	errBadOffset     = errors.New("br: reverse offset to previous header is wrong")
	errMissingOffset = errors.New("br: chained segment is missing its reverse offset")
	errBadCheckID    = errors.New("br: unrecognized check ID")
	errLenMismatch   = errors.New("br: uncompressed length does not match stream")
	errCheckMismatch = errors.New("br: uncompressed data check value does not match")
	errBadTrailer    = errors.New("br: malformed trailer")
)
