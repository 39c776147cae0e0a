// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build ignore
// +build ignore

// Benchmark tool to compare performance between multiple compression
// implementations. Individual implementations are referred to as codecs.
//
// Example usage:
//	$ go build -o benchmark main.go
//	$ ./benchmark \
//		-formats lzo1x,fl        \
//		-tests   decRate         \
//		-files   repeats.bin     \
//		-sizes   1e5,1e6
//
//	BENCHMARK: lzo1x:decRate
//		benchmark              zv MB/s  delta
//		repeats.bin:6:97.66KiB  812.44  1.00x
//		repeats.bin:6:976.56KiB 903.11  1.00x
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dsnet/golib/errs"
	"github.com/dsnet/golib/strconv"
	"github.com/zivillian/lzo.net/internal/tool/bench"
)

var formatMap = map[string]bench.Format{
	"lzo1x": bench.FormatLZO1X,
	"fl":    bench.FormatFlate,
	"zstd":  bench.FormatZstd,
	"xz":    bench.FormatXZ,
}

func main() {
	var err error
	func() {
		defer errs.Recover(&err)
		run()
	}()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() {
	formats := flag.String("formats", "lzo1x", "comma-separated list of formats to benchmark")
	codecs := flag.String("codecs", "", "comma-separated list of codecs (default: all registered)")
	tests := flag.String("tests", "decRate", "comma-separated list of tests: decRate,ratio")
	files := flag.String("files", "repeats.bin", "comma-separated list of input files")
	levels := flag.String("levels", "6", "comma-separated list of compression levels")
	sizes := flag.String("sizes", "1e5", "comma-separated list of input sizes")
	paths := flag.String("paths", "testdata", "comma-separated list of search paths for input files")
	flag.Parse()

	bench.Paths = strings.Split(*paths, ",")
	lvls := parseInts(*levels)
	szs := parseInts(*sizes)

	for _, fs := range strings.Split(*formats, ",") {
		ft, ok := formatMap[fs]
		if !ok {
			errs.Panic(fmt.Errorf("unknown format: %s", fs))
		}
		names := codecNames(ft, *codecs)
		errs.Assert(len(names) > 0, errors.New("no codecs registered for format "+fs))

		for _, ts := range strings.Split(*tests, ",") {
			fmt.Printf("BENCHMARK: %s:%s\n", fs, ts)
			var results [][]bench.Result
			var rows []string
			switch ts {
			case "decRate":
				ref := refEncoder(ft)
				results, rows = bench.BenchmarkDecoderSuite(
					ft, names, strings.Split(*files, ","), lvls, szs, ref, nil)
			case "ratio":
				results, rows = bench.BenchmarkRatioSuite(
					ft, names, strings.Split(*files, ","), lvls, szs, nil)
			default:
				errs.Panic(fmt.Errorf("unknown test: %s", ts))
			}
			printTable(ts, names, rows, results)
			fmt.Println()
		}
	}
}

func codecNames(ft bench.Format, filter string) (names []string) {
	want := map[string]bool{}
	for _, c := range strings.Split(filter, ",") {
		if c != "" {
			want[c] = true
		}
	}
	for name := range bench.Decoders[ft] {
		if len(want) == 0 || want[name] {
			names = append(names, name)
		}
	}
	return names
}

func refEncoder(ft bench.Format) bench.Encoder {
	for _, enc := range bench.Encoders[ft] {
		return enc
	}
	errs.Panic(errors.New("no reference encoder registered"))
	return nil
}

func parseInts(csv string) (vs []int) {
	for _, s := range strings.Split(csv, ",") {
		v, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil {
			errs.Panic(err)
		}
		vs = append(vs, int(v))
	}
	return vs
}

func printTable(test string, codecs, rows []string, results [][]bench.Result) {
	unit := "MB/s"
	if test == "ratio" {
		unit = "ratio"
	}
	tw := tabwriter.NewWriter(os.Stdout, 1, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\tbenchmark\t")
	for _, c := range codecs {
		fmt.Fprintf(tw, "%s %s\tdelta\t", c, unit)
	}
	fmt.Fprintln(tw)
	for i, name := range rows {
		fmt.Fprintf(tw, "\t%s\t", name)
		for _, r := range results[i] {
			fmt.Fprintf(tw, "%.2f\t%.2fx\t", r.R, r.D)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}
