// Package decomp splits the stressor footprint of one (region, sector)
// target into direct, domestic-indirect and foreign-indirect parts.
//
// Overview:
//
//   - For stressor k and target j the per-producer contribution vector is
//     r[i] = S[k, i] * L[i, j] over every producer i of L's index.
//   - direct is the raw intensity S[k, j] of the target itself; it is not
//     multiplied by L[j, j].
//   - Producers in the target's region form the domestic bucket, all others
//     the foreign bucket. foreign_indirect is the foreign sum.
//   - domestic_indirect depends on the Policy:
//     PolicyMinusDirect subtracts direct from the domestic sum, so
//     total == Σ r exactly; PolicyExcludeDiagonal subtracts the diagonal
//     contribution r[j] = S[k, j] * L[j, j], so total == Σ r + direct − r[j].
//     The two agree only when L[j, j] == 1. Both are kept on purpose.
//
// Alignment:
//
//   - The stressor row is looked up by producer key onto L's index. Every
//     producer of L must have an S column; otherwise the call fails with an
//     *AlignmentGapError sampling the first GapSampleSize missing keys in L order.
//     Nothing is zero-filled.
//
// Error handling (sentinel errors, match with errors.Is):
//
//   - ErrNilTable        nil S or L.
//   - ErrInvalidPolicy   unknown domestic-indirect definition; checked first.
//   - ErrUnknownStressor stressor absent from S.
//   - ErrUnknownTarget   target absent from L's columns.
//   - ErrAlignmentGap    L producer without an S column.
//   - ErrNonFinite       an output overflowed to ±Inf or NaN.
//
// Concurrency:
//
//   - Decompose is a pure function over immutable tables. Concurrent calls
//     against the same S and L need no coordination.
//
// Complexity:
//
//   - Time O(p) per query after the O(p) column copy, Space O(p), p = producers.
package decomp
