// Package matrix provides the dense numeric storage under the MRIO tables.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 buffer with bounds-checked At/Set,
//     row/column extraction and copy-based submatrix selection.
//   - A numeric policy: Dense rejects NaN and ±Inf on Set and on bulk
//     construction, so downstream sums are finite by construction.
//   - Centralized validators (nil, square, vector length, finiteness).
//   - Vector kernels used by the decomposition engine: elementwise products,
//     deterministic masked partition sums and tolerance comparison.
//
// All loops run in fixed index order, so repeated calls with the same input
// produce bit-identical results.
package matrix
