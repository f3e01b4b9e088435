// SPDX-License-Identifier: MIT

package ingest

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/mrio/table"
)

var (
	// ErrParse indicates a malformed CSV cell, row or header.
	ErrParse = errors.New("ingest: parse error")

	// ErrNotSquare indicates L has a different number of rows and columns.
	ErrNotSquare = errors.New("ingest: leontief inverse is not square")

	// ErrUnsupportedSource indicates a URI scheme without a configured reader.
	ErrUnsupportedSource = errors.New("ingest: unsupported source")

	// ErrIndexMismatch indicates L's row and column indexes differ in set or order.
	ErrIndexMismatch = table.ErrIndexMismatch

	// ErrColumnGap indicates L producers missing from S's columns.
	ErrColumnGap = table.ErrColumnGap
)

// ParseError locates a parse failure. Line and Field are 1-based; Field is 0
// when the whole record is at fault.
type ParseError struct {
	Source string
	Line   int
	Field  int
	Err    error
}

// Error implements error.
func (e *ParseError) Error() string {
	if e.Field > 0 {
		return fmt.Sprintf("%v: %s:%d field %d: %v", ErrParse, e.Source, e.Line, e.Field, e.Err)
	}

	return fmt.Sprintf("%v: %s:%d: %v", ErrParse, e.Source, e.Line, e.Err)
}

// Unwrap returns both ErrParse and the cause so errors.Is matches either.
func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }
