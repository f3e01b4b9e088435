// SPDX-License-Identifier: MIT

package table

import (
	"fmt"

	"github.com/katalvlaran/mrio/matrix"
	"github.com/katalvlaran/mrio/producer"
)

// StressorTable is the direct-intensity matrix S.
//   - names holds stressor labels in row order; row maps a label to its row.
//   - cols is the producer index of the columns.
//   - data is len(names) × cols.Len(), finite by construction.
type StressorTable struct {
	names []string
	row   map[string]int
	cols  *producer.Index
	data  *matrix.Dense
}

// NewStressorTable copies and validates a stressor table.
// Implementation:
//   - Stage 1: validate labels (non-empty, unique) and the column index.
//   - Stage 2: validate the value grid shape against the labels.
//   - Stage 3: copy values into a Dense under the finite-only numeric policy.
//
// Errors:
//   - ErrNoStressors, ErrDuplicateStressor, ErrNilIndex, ErrShape,
//     matrix.ErrNaNInf (wrapped with the offending stressor).
//
// Complexity:
//   - Time O(s*p), Space O(s*p).
func NewStressorTable(names []string, cols *producer.Index, values [][]float64) (*StressorTable, error) {
	if len(names) == 0 {
		return nil, ErrNoStressors
	}
	if cols == nil {
		return nil, ErrNilIndex
	}
	row := make(map[string]int, len(names))
	for i, n := range names {
		if prev, ok := row[n]; ok {
			return nil, fmt.Errorf("table: stressor %q at rows %d and %d: %w", n, prev, i, ErrDuplicateStressor)
		}
		row[n] = i
	}
	if len(values) != len(names) {
		return nil, fmt.Errorf("table: %d value rows for %d stressors: %w", len(values), len(names), ErrShape)
	}
	for i, r := range values {
		if len(r) != cols.Len() {
			return nil, fmt.Errorf("table: stressor %q has %d values for %d producers: %w", names[i], len(r), cols.Len(), ErrShape)
		}
	}
	data, err := matrix.NewDenseFromRows(values)
	if err != nil {
		return nil, fmt.Errorf("table: stressor values: %w", err)
	}

	own := make([]string, len(names))
	copy(own, names)

	return &StressorTable{names: own, row: row, cols: cols, data: data}, nil
}

// Stressors returns the stressor names in row order.
func (s *StressorTable) Stressors() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)

	return out
}

// Producers returns the column index.
func (s *StressorTable) Producers() *producer.Index { return s.cols }

// Has reports whether the stressor exists.
func (s *StressorTable) Has(stressor string) bool {
	_, ok := s.row[stressor]
	return ok
}

// Row returns a copy of the intensity row of stressor in column order.
func (s *StressorTable) Row(stressor string) ([]float64, bool) {
	i, ok := s.row[stressor]
	if !ok {
		return nil, false
	}
	r, err := s.data.Row(i)
	if err != nil {
		return nil, false
	}

	return r, true
}

// Value returns S[stressor, key].
func (s *StressorTable) Value(stressor string, key producer.Key) (float64, bool) {
	i, ok := s.row[stressor]
	if !ok {
		return 0, false
	}
	j, ok := s.cols.Position(key)
	if !ok {
		return 0, false
	}
	v, err := s.data.At(i, j)

	return v, err == nil
}

// Values returns a copy of the full grid in row order.
func (s *StressorTable) Values() [][]float64 {
	out := make([][]float64, len(s.names))
	for i := range s.names {
		out[i], _ = s.data.Row(i)
	}

	return out
}

// Reindex returns a table whose columns follow target: columns are
// reordered, and producers absent from target are dropped.
// Implementation:
//   - Stage 1: collect producers of target absent from S (gap check).
//   - Stage 2: map target positions to S columns and materialize via Induced.
//
// Errors:
//   - ErrNilIndex; *ColumnGapError (matches ErrColumnGap) when S lacks a target producer.
//
// Complexity:
//   - Time O(s*p), Space O(s*p).
func (s *StressorTable) Reindex(target *producer.Index) (*StressorTable, error) {
	if target == nil {
		return nil, ErrNilIndex
	}
	if s.cols.Equal(target) {
		return s, nil // already aligned; instances are immutable so sharing is safe
	}
	if missing, count := target.Missing(s.cols, GapSampleSize); count > 0 {
		return nil, &ColumnGapError{Missing: missing, Count: count}
	}

	colsIdx := make([]int, target.Len())
	for j := 0; j < target.Len(); j++ {
		colsIdx[j], _ = s.cols.Position(target.At(j))
	}
	rowsIdx := make([]int, len(s.names))
	for i := range rowsIdx {
		rowsIdx[i] = i
	}
	data, err := s.data.Induced(rowsIdx, colsIdx)
	if err != nil {
		return nil, fmt.Errorf("table: reindex: %w", err)
	}

	return &StressorTable{names: s.names, row: s.row, cols: target, data: data}, nil
}
