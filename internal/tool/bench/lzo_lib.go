// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"bytes"
	"errors"
	"io"

	"github.com/zivillian/lzo.net/lzo1x"
)

func init() {
	RegisterEncoder(FormatLZO1X, "lit",
		func(w io.Writer, lvl int) io.WriteCloser {
			return &litEncoder{wr: w}
		})
	RegisterDecoder(FormatLZO1X, "zv",
		func(r io.Reader) io.ReadCloser {
			zr, err := lzo1x.NewReader(r, nil)
			if err != nil {
				panic(err)
			}
			return zr
		})
}

// litEncoder frames its input as a single LZO1X literal run followed by the
// end-of-stream marker. It performs no compression; it exists so that the
// decoder suites have well-formed streams of arbitrary content to chew on.
// The compression level is ignored.
type litEncoder struct {
	wr  io.Writer
	buf bytes.Buffer
}

func (le *litEncoder) Write(p []byte) (int, error) {
	return le.buf.Write(p)
}

func (le *litEncoder) Close() error {
	data := le.buf.Bytes()
	if len(data) == 0 {
		// A first byte of 17 is reserved, so the empty output has no
		// representation as a raw stream.
		return errors.New("bench: empty input has no literal-run framing")
	}
	_, err := le.wr.Write(appendLiteralStream(nil, data))
	return err
}

// appendLiteralStream appends data framed as one literal run plus the
// end-of-stream marker. Short inputs use the literal preamble; longer ones
// use a zero-extended long literal run.
func appendLiteralStream(dst, data []byte) []byte {
	if n := len(data); n <= 238 {
		dst = append(dst, byte(17+n))
	} else {
		dst = append(dst, 0)
		ext := n - 18
		for ; ext > 255; ext -= 255 {
			dst = append(dst, 0)
		}
		dst = append(dst, byte(ext))
	}
	dst = append(dst, data...)
	return append(dst, 0x11, 0x00, 0x00)
}
