// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build gofuzz
// +build gofuzz

package lzo1x

import (
	"bytes"
	"io"

	glzo "github.com/zivillian/lzo.net/lzo1x"
)

// Fuzz decodes arbitrary bytes twice, once in bulk and once a byte at a time,
// and requires the outcomes to agree. Malformed inputs must surface as errors
// from Read, never as panics.
func Fuzz(data []byte) int {
	b1, err1 := decodeBulk(data)
	b2, err2 := decodeBytewise(data)

	if !bytes.Equal(b1, b2) {
		panic("mismatching output between bulk and byte-at-a-time reads")
	}
	if (err1 == nil) != (err2 == nil) {
		panic("mismatching error between bulk and byte-at-a-time reads")
	}
	if err1 == nil {
		return 1 // Favor valid inputs
	}
	return 0
}

func decodeBulk(data []byte) ([]byte, error) {
	zr, err := glzo.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		panic(err)
	}
	return io.ReadAll(zr)
}

func decodeBytewise(data []byte) ([]byte, error) {
	zr, err := glzo.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		panic(err)
	}
	var b []byte
	var buf [1]byte
	for {
		cnt, err := zr.Read(buf[:])
		b = append(b, buf[:cnt]...)
		if err != nil {
			if err == io.EOF {
				err = nil
			}
			return b, err
		}
	}
}
