// SPDX-License-Identifier: MIT

package decomp

import (
	"fmt"

	"github.com/katalvlaran/mrio/producer"
	"github.com/katalvlaran/mrio/table"
)

// Align returns the intensity row of stressor laid out on L's producer index.
// Implementation:
//   - Stage 1: reject nil tables.
//   - Stage 2: stressor must be a row of S, target a column of L.
//   - Stage 3: look up every L producer among S's columns; any miss fails
//     with *AlignmentGapError (first GapSampleSize misses, L order).
//
// Errors:
//   - ErrNilTable, ErrUnknownStressor, ErrUnknownTarget, *AlignmentGapError.
//
// Complexity:
//   - Time O(p), Space O(p).
//
// Notes:
//   - Extra S columns that L does not know are ignored.
//   - Read-only over both tables.
func Align(s *table.StressorTable, l *table.LeontiefInverse, stressor string, target producer.Key) ([]float64, error) {
	if s == nil || l == nil {
		return nil, ErrNilTable
	}
	row, ok := s.Row(stressor)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStressor, stressor)
	}
	lIdx := l.Producers()
	if !lIdx.Contains(target) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, target)
	}

	sIdx := s.Producers()
	if sIdx.Equal(lIdx) {
		return row, nil // fast path: identical axis, row is already a private copy
	}
	if missing, count := lIdx.Missing(sIdx, GapSampleSize); count > 0 {
		return nil, &AlignmentGapError{Stressor: stressor, Missing: missing, Count: count}
	}

	aligned := make([]float64, lIdx.Len())
	var i, pos int
	for i = 0; i < lIdx.Len(); i++ {
		pos, _ = sIdx.Position(lIdx.At(i)) // presence guaranteed by the gap check
		aligned[i] = row[pos]
	}

	return aligned, nil
}
