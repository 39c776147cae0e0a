// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzo1x

import (
	"io"

	"github.com/dsnet/golib/ioutil"
	lzo "github.com/zivillian/lzo.net"
	"github.com/zivillian/lzo.net/internal/errors"
)

// LZO1X is a byte-aligned format, so unlike the bit-packed formats there is
// no bit buffer to maintain; the input side reduces to exact byte reads.
// The reader still insists on byte-at-a-time access to the source so that it
// never consumes input beyond the end-of-stream marker.

type streamReader struct {
	rd     lzo.ByteReader // Underlying reader
	offset int64          // Number of bytes read from the underlying io.Reader

	// Lazily allocated wrapper for sources without single-byte access.
	brd ioutil.ByteReader
}

func (sr *streamReader) Init(r io.Reader) {
	// For efficiency, r should satisfy the lzo.ByteReader interface as well.
	// Otherwise, it will wrap the input with a single byte buffer reader.
	rd, ok := r.(lzo.ByteReader)
	if !ok {
		sr.brd.Reader = r
		rd = &sr.brd
	}
	sr.rd, sr.offset = rd, 0
}

// ReadByte reads the next instruction byte. The input ending in the middle of
// an instruction is always fatal.
func (sr *streamReader) ReadByte() byte {
	c, err := sr.rd.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		errors.Panic(err)
	}
	sr.offset++
	return c
}

// ReadFull fills buf from the source, retrying short reads until the request
// is satisfied or the source reports end of input.
func (sr *streamReader) ReadFull(buf []byte) {
	cnt, err := io.ReadFull(sr.rd, buf)
	sr.offset += int64(cnt)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		errors.Panic(err)
	}
}
