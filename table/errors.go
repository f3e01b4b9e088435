// SPDX-License-Identifier: MIT

package table

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/mrio/producer"
)

var (
	// ErrNilIndex indicates a nil producer index was supplied.
	ErrNilIndex = errors.New("table: producer index is nil")

	// ErrNoStressors indicates a stressor table with zero rows.
	ErrNoStressors = errors.New("table: no stressors")

	// ErrDuplicateStressor indicates the same stressor name appeared twice.
	ErrDuplicateStressor = errors.New("table: duplicate stressor")

	// ErrShape indicates the value grid does not match the declared labels.
	ErrShape = errors.New("table: values do not match labels")

	// ErrIndexMismatch indicates L's row and column indexes differ in set or order.
	ErrIndexMismatch = errors.New("table: row and column producer indexes differ")

	// ErrColumnGap indicates a producer of the target index has no column in S.
	ErrColumnGap = errors.New("table: producer missing from stressor columns")
)

// GapSampleSize bounds the number of missing keys carried by a ColumnGapError.
const GapSampleSize = 10

// ColumnGapError reports producers of a target index that S cannot supply.
//   - Stressor: the row being aligned; empty when the whole table is reindexed.
//   - Missing: at most GapSampleSize keys, in target-index order.
//   - Count: total number of unmatched producers.
type ColumnGapError struct {
	Stressor string
	Missing  []producer.Key
	Count    int
}

// Error implements error.
func (e *ColumnGapError) Error() string {
	if e.Stressor == "" {
		return fmt.Sprintf("%v: %d missing, first %d: %v", ErrColumnGap, e.Count, len(e.Missing), e.Missing)
	}

	return fmt.Sprintf("%v: stressor %q: %d missing, first %d: %v",
		ErrColumnGap, e.Stressor, e.Count, len(e.Missing), e.Missing)
}

// Unwrap lets errors.Is match ErrColumnGap.
func (e *ColumnGapError) Unwrap() error { return ErrColumnGap }
