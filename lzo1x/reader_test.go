// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzo1x

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/zivillian/lzo.net/internal/errors"
	"github.com/zivillian/lzo.net/internal/testutil"
)

// errCorrupt stands for any Corrupted error in the test tables below; the
// exact message is not part of the contract.
var errCorrupt = errorf(errors.Corrupted, "")

func equalError(got, want error) bool {
	if want == errCorrupt {
		return errors.IsCorrupted(got)
	}
	return got == want
}

func TestReader(t *testing.T) {
	// The hex strings below are hand-assembled LZO1X streams. A useful way to
	// cross-check them is the C reference implementation via the python-lzo
	// wrapper:
	//	>>> import lzo
	//	>>> lzo.decompress("1648656c6c6f110000".decode("hex"), False, 64)
	//	'Hello'
	var vectors = []struct {
		desc   string // Description of the test
		input  string // Test input string in hex
		output string // Expected output string in hex
		inIdx  int64  // Expected input offset after reading
		outIdx int64  // Expected output offset after reading
		err    error  // Expected error
	}{{
		desc: "empty input (truncated)",
		err:  io.ErrUnexpectedEOF,
	}, {
		desc:  "first byte of 17 is reserved",
		input: "11000011",
		inIdx: 1,
		err:   errCorrupt,
	}, {
		desc:  "first byte of 16 is reserved",
		input: "10",
		inIdx: 1,
		err:   errCorrupt,
	}, {
		desc:   "literal preamble and end-of-stream",
		input:  "1648656c6c6f110000",
		output: "48656c6c6f",
		inIdx:  9,
		outIdx: 5,
	}, {
		desc:   "end-of-stream with non-zero state bits",
		input:  "1241110100",
		output: "41",
		inIdx:  5,
		outIdx: 1,
	}, {
		desc:   "self-replicating back-reference",
		input:  "1241270000110000",
		output: strings.Repeat("41", 10),
		inIdx:  8,
		outIdx: 10,
	}, {
		desc:   "trailing literals select the short match form",
		input:  "15616263644f0078797a0d0051110000",
		output: "6162636461626378797a637851",
		inIdx:  16,
		outIdx: 13,
	}, {
		desc:   "zero-extended back-reference length",
		input:  "1241200000050000110000",
		output: strings.Repeat("41", 549),
		inIdx:  11,
		outIdx: 549,
	}, {
		desc:   "long literal run",
		input:  "015758595a110000",
		output: "5758595a",
		inIdx:  8,
		outIdx: 4,
	}, {
		desc:   "longest literal run without extension",
		input:  "0f000102030405060708090a0b0c0d0e0f1011110000",
		output: "000102030405060708090a0b0c0d0e0f1011",
		inIdx:  22,
		outIdx: 18,
	}, {
		desc: "opcodes at class boundaries",
		input: "196162636465666768" + "4000" + "02" + "3132333435" + "8001" +
			"3f0000" + "7f00" + "232425" + "110000",
		output: "6162636465666768" + "686868" + "3132333435" + "6868686831" +
			strings.Repeat("31", 33) + "31313131" + "232425",
		inIdx:  30,
		outIdx: 61,
	}, {
		desc:   "end-of-stream marker with wrong length",
		input:  "1241120000",
		output: "41",
		inIdx:  5,
		outIdx: 1,
		err:    errCorrupt,
	}, {
		desc:   "end-of-stream marker with extended length",
		input:  "124110010000",
		output: "41",
		inIdx:  6,
		outIdx: 1,
		err:    errCorrupt,
	}, {
		desc:   "preamble without back-reference",
		input:  "124105",
		output: "41",
		inIdx:  3,
		outIdx: 1,
		err:    errCorrupt,
	}, {
		desc:   "distance beyond produced output",
		input:  "12414001",
		output: "41",
		inIdx:  4,
		outIdx: 1,
		err:    errCorrupt,
	}, {
		desc:   "short match distance beyond produced output",
		input:  "15616263644f0078797a0d40",
		output: "6162636461626378797a",
		inIdx:  12,
		outIdx: 10,
		err:    errCorrupt,
	}, {
		desc:   "truncated back-reference",
		input:  "12412700",
		output: "41",
		inIdx:  4,
		outIdx: 1,
		err:    io.ErrUnexpectedEOF,
	}, {
		desc:  "truncated literal run",
		input: "164865",
		inIdx: 3,
		err:   io.ErrUnexpectedEOF,
	}, {
		desc:   "truncated before end-of-stream",
		input:  "1648656c6c6f",
		output: "48656c6c6f",
		inIdx:  6,
		outIdx: 5,
		err:    io.ErrUnexpectedEOF,
	}}

	for _, v := range vectors {
		t.Run(v.desc, func(t *testing.T) {
			input := testutil.MustDecodeHex(v.input)
			output := testutil.MustDecodeHex(v.output)

			zr, err := NewReader(bytes.NewReader(input), nil)
			if err != nil {
				t.Fatalf("unexpected NewReader error: %v", err)
			}
			buf, err := io.ReadAll(zr)

			if !bytes.Equal(buf, output) {
				t.Errorf("output mismatch:\ngot  %x\nwant %x", buf, output)
			}
			if zr.InputOffset != v.inIdx {
				t.Errorf("input offset mismatch: got %d, want %d", zr.InputOffset, v.inIdx)
			}
			if zr.OutputOffset != v.outIdx {
				t.Errorf("output offset mismatch: got %d, want %d", zr.OutputOffset, v.outIdx)
			}
			if !equalError(err, v.err) {
				t.Errorf("error mismatch: got %v, want %v", err, v.err)
			}
		})
	}
}

// TestReaderChunked checks that the output is invariant under the read sizes
// used to drain the decoder.
func TestReaderChunked(t *testing.T) {
	input, want := testStream(t)
	sizes := []int{1, 2, 7, 31, 303, 4096}

	for _, n := range sizes {
		zr, err := NewReader(bytes.NewReader(input), nil)
		if err != nil {
			t.Fatalf("unexpected NewReader error: %v", err)
		}
		var got []byte
		buf := make([]byte, n)
		for {
			cnt, err := zr.Read(buf)
			got = append(got, buf[:cnt]...)
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("size %d: unexpected Read error: %v", n, err)
			}
		}
		if !bytes.Equal(got, want) {
			t.Errorf("size %d: output mismatch (got %d bytes, want %d bytes)", n, len(got), len(want))
		}
	}
}

// testStream assembles a stream that exercises every match form, extended
// literal runs, and window wrap-around. It returns the stream alongside the
// expected output.
func testStream(t *testing.T) (input, want []byte) {
	t.Helper()
	rng := testutil.NewRand(31)

	literal := func(data []byte) {
		// A long literal run is only valid when the previous instruction
		// produced no literals.
		if len(data) < 19 {
			t.Fatalf("literal run of %d bytes needs length extension math", len(data))
		}
		input = append(input, 0)
		input = appendExtLen(input, len(data)-18)
		input = append(input, data...)
		want = append(want, data...)
	}

	// Long literal run of 2100 bytes.
	literal(rng.Bytes(2100))

	// Far short match after a long run: distance 2049, length 3.
	input = append(input, 0x00, 0x00)
	want = appendCopy(want, 2049, 3)

	// Long literal run up to 17125 bytes of history.
	literal(rng.Bytes(15022))

	// Far short match with distance 2052.
	input = append(input, 0x0c, 0x00)
	want = appendCopy(want, 2052, 3)

	// M4 match: distance 16385, length 3.
	input = append(input, 0x11, 0x04, 0x00)
	want = appendCopy(want, 16385, 3)

	// Grow beyond the window so wrap-around takes effect.
	literal(rng.Bytes(60000))

	// M3 match at its distance limit of 16384, length 33.
	input = append(input, 0x3f, 0xfc, 0xff)
	want = appendCopy(want, 16384, 33)

	// M2 match with trailing literals.
	tail := rng.Bytes(3)
	input = append(input, 0xff, 0x07)
	want = appendCopy(want, 64, 8)
	input = append(input, tail...)
	want = append(want, tail...)

	// Short match in the 1k range driven by the carried state.
	input = append(input, 0x0c, 0x10)
	want = appendCopy(want, 68, 2)

	input = append(input, 0x11, 0x00, 0x00)
	return input, want
}

// appendCopy appends length bytes located dist back from the end of dst,
// byte at a time so that overlapping copies self-replicate.
func appendCopy(dst []byte, dist, length int) []byte {
	for i := 0; i < length; i++ {
		dst = append(dst, dst[len(dst)-dist])
	}
	return dst
}

// appendExtLen appends the zero-extended encoding of an instruction length
// tail, where every zero byte stands for 255.
func appendExtLen(dst []byte, v int) []byte {
	for ; v > 255; v -= 255 {
		dst = append(dst, 0)
	}
	return append(dst, byte(v))
}

func TestReaderMaxDistance(t *testing.T) {
	rng := testutil.NewRand(7)
	lit := rng.Bytes(maxDistance)

	var input []byte
	input = append(input, 0)
	input = appendExtLen(input, len(lit)-18)
	input = append(input, lit...)
	// M4 match: distance 49151, length 9.
	input = append(input, 0x1f, 0xfc, 0xff)
	input = append(input, 0x11, 0x00, 0x00)

	want := appendCopy(lit, maxDistance, 9)

	zr, err := NewReader(bytes.NewReader(input), nil)
	if err != nil {
		t.Fatalf("unexpected NewReader error: %v", err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("unexpected Read error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("output mismatch (got %d bytes, want %d bytes)", len(got), len(want))
	}
}

// TestReaderLiteralRoundTrip frames random data as a single literal run and
// requires the decoder to reproduce it for any content and size.
func TestReaderLiteralRoundTrip(t *testing.T) {
	rng := testutil.NewRand(0)
	for _, n := range []int{1, 2, 3, 4, 238, 239, 5000, 100000} {
		data := rng.Bytes(n)

		var input []byte
		if n <= 238 {
			input = append(input, byte(17+n))
		} else {
			input = append(input, 0)
			input = appendExtLen(input, n-18)
		}
		input = append(input, data...)
		input = append(input, 0x11, 0x00, 0x00)

		zr, err := NewReader(bytes.NewReader(input), nil)
		if err != nil {
			t.Fatalf("unexpected NewReader error: %v", err)
		}
		got, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("size %d: unexpected Read error: %v", n, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("size %d: output mismatch", n)
		}
	}
}

// TestReaderExtLenOverflow feeds an unbounded run of zero extension bytes and
// expects the decoder to reject it rather than spin or overflow.
func TestReaderExtLenOverflow(t *testing.T) {
	input := io.MultiReader(
		bytes.NewReader([]byte{0x12, 0x41, 0x20}),
		&zeroReader{},
	)
	zr, err := NewReader(input, nil)
	if err != nil {
		t.Fatalf("unexpected NewReader error: %v", err)
	}
	_, err = io.ReadAll(zr)
	if !errors.IsCorrupted(err) {
		t.Errorf("error mismatch: got %v, want corrupted", err)
	}
}

// zeroReader is an endless source of zero bytes.
type zeroReader struct{}

func (zeroReader) Read(buf []byte) (int, error) {
	for i := range buf {
		buf[i] = 0
	}
	return len(buf), nil
}

func TestReaderZeroLengthReads(t *testing.T) {
	input := testutil.MustDecodeHex("1648656c6c6f110000")
	zr, err := NewReader(bytes.NewReader(input), nil)
	if err != nil {
		t.Fatalf("unexpected NewReader error: %v", err)
	}

	// Zero-length reads must not advance any state.
	for i := 0; i < 3; i++ {
		if cnt, err := zr.Read(nil); cnt != 0 || err != nil {
			t.Fatalf("Read(nil) = (%d, %v), want (0, nil)", cnt, err)
		}
	}
	if zr.InputOffset != 0 || zr.OutputOffset != 0 {
		t.Fatalf("offsets advanced on zero-length read: (%d, %d)", zr.InputOffset, zr.OutputOffset)
	}

	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("unexpected Read error: %v", err)
	}
	if string(got) != "Hello" {
		t.Errorf("output mismatch: got %q, want %q", got, "Hello")
	}

	// The stream is sealed; subsequent reads keep reporting io.EOF.
	for i := 0; i < 3; i++ {
		if cnt, err := zr.Read(make([]byte, 1)); cnt != 0 || err != io.EOF {
			t.Fatalf("Read after EOF = (%d, %v), want (0, EOF)", cnt, err)
		}
	}
}

func TestReaderReset(t *testing.T) {
	zr, err := NewReader(bytes.NewReader(testutil.MustDecodeHex("1241270000110000")), nil)
	if err != nil {
		t.Fatalf("unexpected NewReader error: %v", err)
	}
	if _, err := io.ReadAll(zr); err != nil {
		t.Fatalf("unexpected Read error: %v", err)
	}

	zr.Reset(bytes.NewReader(testutil.MustDecodeHex("1648656c6c6f110000")))
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("unexpected Read error after Reset: %v", err)
	}
	if string(got) != "Hello" {
		t.Errorf("output mismatch after Reset: got %q, want %q", got, "Hello")
	}

	if err := zr.Close(); err != nil {
		t.Errorf("unexpected Close error: %v", err)
	}
	if _, err := zr.Read(make([]byte, 1)); !errors.IsClosed(err) {
		t.Errorf("Read after Close: got %v, want closed error", err)
	}
}
