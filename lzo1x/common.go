// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lzo1x implements the LZO1X compressed data format.
package lzo1x

import (
	"fmt"

	"github.com/zivillian/lzo.net/internal/errors"
)

// There does not exist an RFC for the LZO1X format. The opcode encoding used
// here is derived from the documentation shipped with the Linux kernel and
// cross-checked against the original C implementation.
//
// Instruction stream structure:
//	Optional literal preamble  (first byte > 17)
//	Sequence of instructions   (literal runs and back-references)
//	End-of-stream marker       (M4 back-reference with distance 16384)
//
// References:
//	https://www.kernel.org/doc/Documentation/lzo.txt
//	http://www.oberhumer.com/opensource/lzo/
//
// Instruction classes are named after the match forms of the original
// implementation. The first byte of each instruction determines its class:
//	M1: 0000LLLL  state-dependent; a literal run or a short 2..3 byte match
//	M4: 0001HLLL  match, distance 16385..49151 (also carries end-of-stream)
//	M3: 001LLLLL  match, distance 1..16384
//	M2: 01LDDDSS and 1LLDDDSS  match, length 3..8, distance 1..2048
const (
	markerM4 = 16
	markerM3 = 32
	markerM2 = 64

	// maxDistance is the largest distance the M4 form can express:
	// 16384 + (1 << 14) + 16383.
	maxDistance = 49151

	// m1LongDistBase is the base distance of the M1 match form selected when
	// the previous instruction was a long literal run.
	m1LongDistBase = 2049

	// eosLength is the only valid match length of the end-of-stream marker.
	eosLength = 3

	// windowSize is the sliding window capacity. Any value no less than
	// maxDistance works; a power of two keeps the buffer math cheap.
	windowSize = 1 << 16

	// maxExtLen bounds zero-extended length fields so that malformed inputs
	// cannot overflow run-length arithmetic.
	maxExtLen = 1<<31 - 1000
)

// Carried decoder state. Values 0..3 record how many trailing literals the
// previous instruction copied; stateLongRun is set after the literal preamble
// (of any length) and after a long literal run, which is always four or more
// bytes. Instructions below markerM4 are the only consumers.
const (
	stateNoLiterals = 0
	stateLongRun    = 4
)

func errorf(c int, f string, v ...interface{}) error {
	return errors.Error{Code: c, Pkg: "lzo1x", Msg: fmt.Sprintf(f, v...)}
}

func panicf(c int, f string, v ...interface{}) {
	errors.Panic(errorf(c, f, v...))
}

var errClosed = errorf(errors.Closed, "")
