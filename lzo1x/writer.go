// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzo1x

import (
	"io"

	"github.com/zivillian/lzo.net/internal/errors"
)

type WriterConfig struct {
	_ struct{} // Blank field to prevent unkeyed struct literals
}

// NewWriter is a placeholder for the LZO1X compressor. This package only
// implements decompression; callers probing for a matching encoder get a
// typed error instead of a missing symbol.
func NewWriter(w io.Writer, conf *WriterConfig) (io.WriteCloser, error) {
	return nil, errorf(errors.Unsupported, "compression is not implemented")
}
