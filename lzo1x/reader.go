// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzo1x

import (
	"io"

	"github.com/zivillian/lzo.net/internal/errors"
)

type Reader struct {
	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	rd     streamReader // Input source
	toRead []byte       // Uncompressed data ready to be emitted from Read
	err    error        // Persistent error

	step      func(*Reader) // Single step of decompression work (can panic)
	stepState int           // The sub-step state for the readBlock step

	inst      int  // Prefetched instruction byte, valid if haveInst is set
	haveInst  bool // Was the instruction byte already consumed?
	state     int  // Literal-run class of the previous instruction
	dist      int  // The current back-reference distance
	cpyLen    int  // Back-reference bytes left to copy
	litLen    int  // Literal bytes left to copy from the input
	trailLen  int  // Trailing literals owed after the current back-reference
	needMatch bool // Must the next instruction be a back-reference?

	dict dictDecoder // Sliding window history
}

// Sub-step states of readBlock, recording where to resume after the window
// filled in the middle of an instruction.
const (
	stepInst = iota // Zero value must be stepInst
	stepLiteral
	stepMatch
)

type ReaderConfig struct {
	_ struct{} // Blank field to prevent unkeyed struct literals
}

func NewReader(r io.Reader, conf *ReaderConfig) (*Reader, error) {
	if r == nil {
		return nil, errorf(errors.Invalid, "nil reader")
	}
	zr := new(Reader)
	zr.Reset(r)
	return zr, nil
}

func (zr *Reader) Reset(r io.Reader) {
	*zr = Reader{
		rd:   zr.rd,
		dict: zr.dict,
		step: (*Reader).readPreamble,
	}
	zr.rd.Init(r)
	zr.dict.Init()
}

func (zr *Reader) Read(buf []byte) (int, error) {
	for {
		if len(zr.toRead) > 0 {
			cnt := copy(buf, zr.toRead)
			zr.toRead = zr.toRead[cnt:]
			zr.OutputOffset += int64(cnt)
			return cnt, nil
		}
		if zr.err != nil {
			return 0, zr.err
		}
		if len(buf) == 0 {
			return 0, nil
		}

		// Perform next step in decompression process.
		func() {
			defer errors.Recover(&zr.err)
			zr.step(zr)
		}()
		zr.InputOffset = zr.rd.offset
		zr.toRead = zr.dict.ReadFlush() // Serve produced bytes before any error
	}
}

func (zr *Reader) Close() error {
	if zr.err == io.EOF || zr.err == errClosed {
		zr.toRead = nil // Make sure future reads fail
		zr.err = errClosed
		return nil
	}
	return zr.err // Return the persistent error
}

// readPreamble reads the optional literal preamble at the head of the stream.
// A first byte above 17 encodes an immediate literal run of that many minus 17
// bytes; the instruction that follows such a run must be a back-reference.
// First bytes of 16 and 17 have no assigned meaning. Anything lower is an
// ordinary first instruction.
func (zr *Reader) readPreamble() {
	b0 := int(zr.rd.ReadByte())
	zr.step = (*Reader).readBlock
	switch {
	case b0 > 17:
		zr.litLen = b0 - 17
		zr.state = stateLongRun
		zr.needMatch = true
		zr.stepState = stepLiteral
	case b0 >= markerM4:
		panicf(errors.Corrupted, "invalid first byte (%d)", b0)
	default:
		zr.inst, zr.haveInst = b0, true
	}
	zr.readBlock()
}

// readBlock decodes instructions until the window fills or the stream ends.
func (zr *Reader) readBlock() {
	switch zr.stepState {
	case stepInst:
		goto readInst
	case stepLiteral:
		goto copyLiteral
	case stepMatch:
		goto copyMatch
	}

readInst:
	// Decode the next instruction into a (dist, cpyLen, trailLen) tuple.
	{
		if zr.dict.AvailWrite() == 0 {
			zr.stepState = stepInst // Need to continue work here
			return
		}

		inst := zr.inst
		if zr.haveInst {
			zr.haveInst = false
		} else {
			inst = int(zr.rd.ReadByte())
		}
		if zr.needMatch && inst < markerM4 {
			panicf(errors.Corrupted, "expected back-reference after literal run")
		}
		zr.needMatch = false

		switch {
		case inst >= markerM2:
			// 1LLDDDSS and 01LDDDSS: length 3..8, distance 1..2048.
			h := int(zr.rd.ReadByte())
			zr.cpyLen = (inst >> 5) + 1
			zr.dist = (h << 3) + ((inst >> 2) & 7) + 1
			zr.trailLen = inst & 3
		case inst >= markerM3:
			// 001LLLLL: length 3..(33+ext), distance 1..16384.
			zr.cpyLen = 2 + (inst & 0x1f)
			if inst&0x1f == 0 {
				zr.cpyLen = 2 + 31 + zr.readExtLen()
			}
			s := int(zr.rd.ReadByte())
			d := int(zr.rd.ReadByte())
			zr.dist = ((d<<8 | s) >> 2) + 1
			zr.trailLen = s & 3
		case inst >= markerM4:
			// 0001HLLL: length 3..(9+ext), distance 16385..49151. The
			// encoding whose distance field works out to exactly 16384 is
			// the end-of-stream marker.
			zr.cpyLen = 2 + (inst & 7)
			if inst&7 == 0 {
				zr.cpyLen = 2 + 7 + zr.readExtLen()
			}
			s := int(zr.rd.ReadByte())
			d := int(zr.rd.ReadByte())
			base := ((inst & 8) << 11) | ((d<<8 | s) >> 2)
			if base == 0 {
				if zr.cpyLen != eosLength {
					panicf(errors.Corrupted, "end-of-stream marker with length %d", zr.cpyLen)
				}
				errors.Panic(io.EOF)
			}
			zr.dist = (1 << 14) + base
			zr.trailLen = s & 3
		default:
			// 0000LLLL: interpretation depends on how many literals the
			// previous instruction produced.
			if zr.state == stateNoLiterals {
				// A long literal run; this form performs no back-reference.
				zr.litLen = 3 + inst
				if inst == 0 {
					zr.litLen = 3 + 15 + zr.readExtLen()
				}
				zr.state = stateLongRun
				goto copyLiteral
			}
			h := int(zr.rd.ReadByte())
			zr.trailLen = inst & 3
			if zr.state == stateLongRun {
				zr.dist = (h << 2) + ((inst >> 2) & 3) + m1LongDistBase
				zr.cpyLen = 3
			} else {
				zr.dist = (h << 2) + ((inst >> 2) & 3) + 1
				zr.cpyLen = 2
			}
		}

		if zr.dist > zr.dict.HistSize() {
			panicf(errors.Corrupted, "back-reference distance (%d) exceeds produced output", zr.dist)
		}
	}

copyMatch:
	// Perform a backwards copy of the current back-reference.
	{
		cnt := zr.dict.WriteCopy(zr.dist, zr.cpyLen)
		zr.cpyLen -= cnt
		if zr.cpyLen > 0 {
			zr.stepState = stepMatch // Need to continue work here
			return
		}

		// The trailing literals both follow the back-reference in the output
		// and select how the next instruction below markerM4 is interpreted.
		zr.litLen = zr.trailLen
		zr.state = zr.trailLen
	}

copyLiteral:
	// Copy a run of literals from the input into the window.
	{
		for zr.litLen > 0 {
			buf := zr.dict.WriteSlice()
			if len(buf) == 0 {
				zr.stepState = stepLiteral // Need to continue work here
				return
			}
			if len(buf) > zr.litLen {
				buf = buf[:zr.litLen]
			}
			zr.rd.ReadFull(buf)
			zr.dict.WriteMark(len(buf))
			zr.litLen -= len(buf)
		}
		goto readInst
	}
}

// readExtLen reads the zero-extended tail of a length field. Every zero byte
// contributes 255 and the first non-zero byte terminates the run with its own
// value.
func (zr *Reader) readExtLen() int {
	var n int
	for {
		c := int(zr.rd.ReadByte())
		if c != 0 {
			return n + c
		}
		n += 255
		if n > maxExtLen {
			panicf(errors.Corrupted, "extended length overflows run-length arithmetic")
		}
	}
}
