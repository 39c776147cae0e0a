// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzo1x

// dictDecoder implements the LZO1X sliding window deployed during
// decompression. The window serves double duty: it is the history that
// back-references resolve against, and it stages produced bytes until the
// caller drains them through Read.
//
// Decompressed output is produced by two instruction forms:
//
//	Literal runs: bytes copied from the input stream as is. These arrive
//	through WriteSlice/WriteMark (bulk copies land directly in the window).
//
//	Back-references: the pair (dist, length) reproduces previously produced
//	output from dist bytes back. The length may exceed the distance, in
//	which case the source region grows as the copy progresses and the last
//	dist bytes repeat cyclically. WriteCopy implements this form.
//
// For performance reasons, this implementation performs little to no sanity
// checks about the arguments. As such, the invariants documented for each
// method call must be respected.
type dictDecoder struct {
	hist []byte // Sliding window history

	// Invariant: 0 <= rdPos <= wrPos <= len(hist)
	wrPos int  // Current output position in buffer
	rdPos int  // Have emitted hist[:rdPos] already
	full  bool // Has a full window length been written yet?
}

// Init initializes dictDecoder. The window capacity is fixed: it must span
// the largest representable back-reference distance (49151), rounded up to a
// power of two.
func (dd *dictDecoder) Init() {
	*dd = dictDecoder{hist: dd.hist}
	if cap(dd.hist) < windowSize {
		dd.hist = make([]byte, windowSize)
	}
	dd.hist = dd.hist[:windowSize]
}

// HistSize reports the total amount of historical data in the window.
// Back-references with a distance beyond this are corrupt.
func (dd *dictDecoder) HistSize() int {
	if dd.full {
		return len(dd.hist)
	}
	return dd.wrPos
}

// AvailRead reports the number of bytes that can be flushed by ReadFlush.
func (dd *dictDecoder) AvailRead() int {
	return dd.wrPos - dd.rdPos
}

// AvailWrite reports the available amount of output buffer space.
func (dd *dictDecoder) AvailWrite() int {
	return len(dd.hist) - dd.wrPos
}

// WriteSlice returns a slice of the available buffer to write data to.
//
// This invariant will be kept: len(s) <= AvailWrite()
func (dd *dictDecoder) WriteSlice() []byte {
	return dd.hist[dd.wrPos:]
}

// WriteMark advances the write pointer by cnt.
//
// This invariant must be kept: 0 <= cnt <= AvailWrite()
func (dd *dictDecoder) WriteMark(cnt int) {
	dd.wrPos += cnt
}

// WriteCopy copies a string at a given (dist, length) to the output.
// This returns the number of bytes copied and may be less than the requested
// length if the available space in the window is too small.
//
// This invariant must be kept: 0 < dist <= HistSize()
func (dd *dictDecoder) WriteCopy(dist, length int) int {
	dstBase := dd.wrPos
	dstPos := dstBase
	srcPos := dstPos - dist
	endPos := dstPos + length
	if endPos > len(dd.hist) {
		endPos = len(dd.hist)
	}

	// Copy non-overlapping section after destination position.
	//
	// This section is non-overlapping in that the copy length for this section
	// is always less than or equal to the backwards distance. This can occur
	// if a distance refers to data that wraps-around in the buffer.
	// Thus, a backwards copy is performed here; that is, the exact bytes in
	// the source prior to the copy is placed in the destination.
	if srcPos < 0 {
		srcPos += len(dd.hist)
		dstPos += copy(dd.hist[dstPos:endPos], dd.hist[srcPos:])
		srcPos = 0
	}

	// Copy possibly overlapping section before destination position.
	//
	// This section can overlap if the copy length for this section is larger
	// than the backwards distance. The format requires that such a copy
	// self-replicates: each chunk copied becomes valid source for the next,
	// so the copy proceeds forward, each chunk taking its source only from
	// bytes already written before dstPos (the first chunk is dist bytes,
	// later chunks grow with everything copied so far), and is never
	// performed as one bulk move across the overlap. This is functionally
	// equivalent to the following:
	//
	//	for i := 0; i < endPos-dstPos; i++ {
	//		dd.hist[dstPos+i] = dd.hist[srcPos+i]
	//	}
	//	dstPos = endPos
	//
	for dstPos < endPos {
		dstPos += copy(dd.hist[dstPos:endPos], dd.hist[srcPos:dstPos])
	}

	dd.wrPos = dstPos
	return dstPos - dstBase
}

// WriteByte writes a single byte to the window.
//
// This invariant must be kept: 0 < AvailWrite()
func (dd *dictDecoder) WriteByte(c byte) {
	dd.hist[dd.wrPos] = c
	dd.wrPos++
}

// ReadFlush returns a slice of the window that is ready to be emitted to the
// user. The data returned by ReadFlush must be fully consumed before calling
// any other dictDecoder methods.
func (dd *dictDecoder) ReadFlush() []byte {
	toRead := dd.hist[dd.rdPos:dd.wrPos]
	dd.rdPos = dd.wrPos
	if dd.wrPos == len(dd.hist) {
		dd.wrPos, dd.rdPos = 0, 0
		dd.full = true
	}
	return toRead
}
