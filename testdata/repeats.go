// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build ignore
// +build ignore

// Generates repeats.bin, the default input of the bench tool. The file
// heavily favors LZ77 based compression since a large bulk of its data is a
// copy from some distance ago, while the underlying runs are random enough
// that entropy coding alone gains little.
package main

import (
	"math/rand"
	"os"
)

const (
	name = "repeats.bin"
	size = 1 << 20
)

func main() {
	r := rand.New(rand.NewSource(0))

	b := make([]byte, 0, size)
	for len(b) < size {
		if len(b) == 0 || r.Intn(4) == 0 {
			// Fresh random run.
			n := 16 + r.Intn(512)
			for i := 0; i < n; i++ {
				b = append(b, byte(r.Int()))
			}
			continue
		}

		// Repeat a run from some earlier offset.
		dist := 1 + r.Intn(len(b))
		n := 4 + r.Intn(512)
		for i := 0; i < n; i++ {
			b = append(b, b[len(b)-dist])
		}
	}

	if err := os.WriteFile(name, b[:size], 0664); err != nil {
		panic(err)
	}
}
