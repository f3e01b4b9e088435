// SPDX-License-Identifier: MIT

package table

import (
	"fmt"

	"github.com/katalvlaran/mrio/matrix"
	"github.com/katalvlaran/mrio/producer"
)

// LeontiefInverse is the square total-requirements matrix L.
// L[i, j] is the output of producer i required per unit of final demand for product j.
type LeontiefInverse struct {
	idx  *producer.Index
	data *matrix.Dense
}

// NewLeontiefInverse copies and validates L.
// Implementation:
//   - Stage 1: both axes present and identical in set and order.
//   - Stage 2: value grid is idx.Len() × idx.Len() and finite.
//
// Errors:
//   - ErrNilIndex, ErrIndexMismatch, ErrShape, matrix.ErrNonSquare, matrix.ErrNaNInf.
//
// Complexity:
//   - Time O(p²), Space O(p²).
func NewLeontiefInverse(rows, cols *producer.Index, values [][]float64) (*LeontiefInverse, error) {
	if rows == nil || cols == nil {
		return nil, ErrNilIndex
	}
	if !rows.Equal(cols) {
		return nil, ErrIndexMismatch
	}
	if len(values) != rows.Len() {
		return nil, fmt.Errorf("table: %d value rows for %d producers: %w", len(values), rows.Len(), ErrShape)
	}
	data, err := matrix.NewDenseFromRows(values)
	if err != nil {
		return nil, fmt.Errorf("table: leontief values: %w", err)
	}
	if err = matrix.ValidateSquare(data); err != nil {
		return nil, fmt.Errorf("table: leontief: %w", err)
	}
	if data.Cols() != cols.Len() {
		return nil, fmt.Errorf("table: %d value columns for %d producers: %w", data.Cols(), cols.Len(), ErrShape)
	}

	return &LeontiefInverse{idx: rows, data: data}, nil
}

// Producers returns the shared row/column index.
func (l *LeontiefInverse) Producers() *producer.Index { return l.idx }

// Column returns a copy of L[:, target] in index order.
func (l *LeontiefInverse) Column(target producer.Key) ([]float64, bool) {
	j, ok := l.idx.Position(target)
	if !ok {
		return nil, false
	}
	col, err := l.data.Col(j)
	if err != nil {
		return nil, false
	}

	return col, true
}

// At returns L[row, col].
func (l *LeontiefInverse) At(row, col producer.Key) (float64, bool) {
	i, ok := l.idx.Position(row)
	if !ok {
		return 0, false
	}
	j, ok := l.idx.Position(col)
	if !ok {
		return 0, false
	}
	v, err := l.data.At(i, j)

	return v, err == nil
}

// Values returns a copy of the full grid in row order.
func (l *LeontiefInverse) Values() [][]float64 {
	out := make([][]float64, l.idx.Len())
	for i := range out {
		out[i], _ = l.data.Row(i)
	}

	return out
}
