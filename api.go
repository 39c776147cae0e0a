// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lzo is a collection of Lempel-Ziv-Oberhumer codecs.
package lzo

import (
	"bufio"
	"io"

	"github.com/zivillian/lzo.net/internal/errors"
)

// The Error interface identifies all compression related errors.
type Error interface {
	error
	CompressError()

	// IsCorrupted reports whether the input stream was malformed.
	IsCorrupted() bool

	// IsUnsupported reports whether the requested operation or stream
	// feature is not implemented by this library.
	IsUnsupported() bool
}

var _ Error = errors.Error{}

// ByteReader is the interface the decompression Readers read through.
// It guarantees that the decompressor never consumes more bytes than
// necessary from the underlying io.Reader, so the input is left positioned
// immediately after the end-of-stream marker. An io.Reader that does not
// satisfy it is wrapped in a single-byte buffered adapter.
//
// The bufio.Reader and bytes.Reader satisfy this interface.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

var _ ByteReader = (*bufio.Reader)(nil)
