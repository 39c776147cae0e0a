// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package errors implements functions to manipulate compression errors.
//
// In idiomatic Go, it is an anti-pattern to use panics as a form of error
// reporting. Instead, it is customary to report errors as return values of
// functions. Unfortunately, the decompressor in this repository is a deep
// state machine where nearly every fetched byte can fail; threading explicit
// error returns through every decode step obscures the structure of the
// decoder itself. Thus, this package provides the ability to recover from
// panics raised inside the decode steps, converting them back into error
// values at the public API boundary.
package errors

import "strings"

const (
	// Unknown indicates that there is no classification for this error.
	Unknown = iota

	// Internal indicates that this error is due to an internal bug.
	// Users should file a issue report if this type of error is encountered.
	Internal

	// Invalid indicates that this error is due to the user misusing the API
	// and is indicative of a bug on the user's part.
	Invalid

	// Unsupported indicates that the stream or requested operation uses a
	// feature that this library does not implement.
	Unsupported

	// Corrupted indicates that the input stream is corrupted.
	Corrupted

	// Closed indicates that the handler is closed.
	Closed
)

var codeMap = map[int]string{
	Unknown:     "unknown error",
	Internal:    "internal error",
	Invalid:     "invalid argument",
	Unsupported: "unsupported feature",
	Corrupted:   "corrupted input",
	Closed:      "closed handler",
}

type Error struct {
	Code int    // The error type
	Pkg  string // Name of the package where the error originated
	Msg  string // Descriptive message about the error (optional)
}

func (e Error) Error() string {
	var ss []string
	for _, s := range []string{e.Pkg, codeMap[e.Code], e.Msg} {
		if s != "" {
			ss = append(ss, s)
		}
	}
	return strings.Join(ss, ": ")
}

func (e Error) CompressError()      {}
func (e Error) IsInternal() bool    { return e.Code == Internal }
func (e Error) IsInvalid() bool     { return e.Code == Invalid }
func (e Error) IsUnsupported() bool { return e.Code == Unsupported }
func (e Error) IsCorrupted() bool   { return e.Code == Corrupted }
func (e Error) IsClosed() bool      { return e.Code == Closed }

func IsInternal(err error) bool    { return isCode(err, Internal) }
func IsInvalid(err error) bool     { return isCode(err, Invalid) }
func IsUnsupported(err error) bool { return isCode(err, Unsupported) }
func IsCorrupted(err error) bool   { return isCode(err, Corrupted) }
func IsClosed(err error) bool      { return isCode(err, Closed) }

func isCode(err error, code int) bool {
	if cerr, ok := err.(Error); ok && cerr.Code == code {
		return true
	}
	return false
}

// errWrap is used by Recover to ensure that panics raised by this library are
// the only ones that convert into errors; all foreign panics keep unwinding.
type errWrap struct{ e *error }

func Recover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case errWrap:
		*err = *ex.e
	default:
		panic(ex)
	}
}

func Panic(err error) {
	panic(errWrap{&err})
}
