// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide small vector kernels shared by the decomposition engine:
//     elementwise product, plain sum and a masked two-way partition sum.
//   - Keep all loops deterministic (flat 0..n-1) so sums are reproducible.
//
// Determinism & Performance:
//   - Single pass per kernel; O(n) time, at most one O(n) allocation.

package matrix

import (
	"fmt"
	"math"
)

// Operation name constants for unified error wrapping.
const (
	opHadamardVec  = "HadamardVec"
	opPartitionSum = "PartitionSum"
	opAllCloseVec  = "AllCloseVec"
)

// ZeroSum is the neutral accumulator value for sums.
const ZeroSum = 0.0

// matrixErrorf prefixes err with the kernel tag; err must be non-nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// HadamardVec computes out[i] = a[i] * b[i].
// Implementation:
//   - Stage 1: validate both vectors are non-nil and of equal length.
//   - Stage 2: single flat loop into a fresh slice.
//
// Errors:
//   - ErrNilMatrix for a nil operand, ErrDimensionMismatch for unequal lengths.
//
// Complexity:
//   - Time O(n), Space O(n).
func HadamardVec(a, b []float64) ([]float64, error) {
	if err := ValidateVecLen(a, len(b)); err != nil {
		return nil, matrixErrorf(opHadamardVec, err)
	}
	if b == nil {
		return nil, matrixErrorf(opHadamardVec, ErrNilMatrix)
	}
	out := make([]float64, len(a))
	var i int
	for i = 0; i < len(a); i++ {
		out[i] = a[i] * b[i]
	}

	return out, nil
}

// SumVec returns Σ x[i] accumulated in index order.
// Complexity: Time O(n), Space O(1).
func SumVec(x []float64) float64 {
	acc := ZeroSum
	for _, v := range x {
		acc += v
	}

	return acc
}

// PartitionSum splits Σ x[i] into two buckets by mask:
// in = Σ x[i] where mask[i], out = Σ x[i] where !mask[i].
// Implementation:
//   - Stage 1: validate len(mask) == len(x).
//   - Stage 2: one pass in index order, each entry lands in exactly one bucket.
//
// Errors:
//   - ErrDimensionMismatch when lengths differ.
//
// Complexity:
//   - Time O(n), Space O(1).
//
// Notes:
//   - in+out equals SumVec(x) up to floating-point reassociation.
func PartitionSum(x []float64, mask []bool) (in, out float64, err error) {
	if len(mask) != len(x) {
		return 0, 0, matrixErrorf(opPartitionSum, ErrDimensionMismatch)
	}
	in, out = ZeroSum, ZeroSum
	for i, v := range x {
		if mask[i] {
			in += v
		} else {
			out += v
		}
	}

	return in, out, nil
}

// AllCloseVec reports whether |a[i]-b[i]| <= eps for all i, where eps comes
// from WithEpsilon (DefaultEpsilon when unset).
//
// Errors:
//   - ErrDimensionMismatch when lengths differ; ErrNaNInf when any entry is non-finite.
func AllCloseVec(a, b []float64, opts ...Option) (bool, error) {
	if len(a) != len(b) {
		return false, matrixErrorf(opAllCloseVec, ErrDimensionMismatch)
	}
	o := gatherOptions(opts...)
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) || math.IsInf(a[i], 0) || math.IsInf(b[i], 0) {
			return false, matrixErrorf(opAllCloseVec, ErrNaNInf)
		}
		if math.Abs(a[i]-b[i]) > o.eps {
			return false, nil
		}
	}

	return true, nil
}
