// SPDX-License-Identifier: MIT

package decomp

import (
	"errors"

	"github.com/katalvlaran/mrio/table"
)

// Sentinel errors returned by Align and Decompose.
var (
	// ErrNilTable indicates a nil stressor table or Leontief inverse.
	ErrNilTable = errors.New("decomp: table is nil")

	// ErrUnknownStressor indicates the stressor is not a row of S.
	ErrUnknownStressor = errors.New("decomp: stressor not found")

	// ErrUnknownTarget indicates the (region, sector) target is not a column of L.
	ErrUnknownTarget = errors.New("decomp: target not found in leontief columns")

	// ErrAlignmentGap indicates producers of L's index have no column in S.
	// It is table.ErrColumnGap, so gaps found at load time match too.
	ErrAlignmentGap = table.ErrColumnGap

	// ErrInvalidPolicy indicates an unrecognized domestic-indirect definition.
	ErrInvalidPolicy = errors.New("decomp: invalid domestic indirect definition")

	// ErrNonFinite indicates a computed total overflowed to ±Inf or NaN.
	ErrNonFinite = errors.New("decomp: non-finite result")
)

// GapSampleSize bounds the missing-producer sample carried by AlignmentGapError.
const GapSampleSize = table.GapSampleSize

// AlignmentGapError reports which producers of L could not be matched in S.
// Align sets Stressor; table.StressorTable.Reindex leaves it empty.
type AlignmentGapError = table.ColumnGapError
