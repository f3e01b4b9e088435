// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/mrio/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHadamardVec(t *testing.T) {
	t.Parallel()

	out, err := matrix.HadamardVec([]float64{5, 2, 0}, []float64{1.2, 0.3, 7})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{6, 0.6, 0}, out, 1e-12)

	_, err = matrix.HadamardVec([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.HadamardVec(nil, []float64{})
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	_, err = matrix.HadamardVec([]float64{}, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestPartitionSum(t *testing.T) {
	t.Parallel()

	x := []float64{6, 0.6, 1.5, -0.5}
	mask := []bool{true, false, true, false}

	in, out, err := matrix.PartitionSum(x, mask)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, in, 1e-12)
	assert.InDelta(t, 0.1, out, 1e-12)
	assert.InDelta(t, matrix.SumVec(x), in+out, 1e-12)

	_, _, err = matrix.PartitionSum(x, mask[:2])
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestSumVecEmpty(t *testing.T) {
	require.Equal(t, matrix.ZeroSum, matrix.SumVec(nil))
}

func TestAllCloseVec(t *testing.T) {
	t.Parallel()

	ok, err := matrix.AllCloseVec([]float64{1, 2}, []float64{1 + 1e-12, 2})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = matrix.AllCloseVec([]float64{1}, []float64{1.1}, matrix.WithEpsilon(0.01))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = matrix.AllCloseVec([]float64{1}, []float64{1.1}, matrix.WithEpsilon(0.5))
	require.NoError(t, err)
	require.True(t, ok)

	_, err = matrix.AllCloseVec([]float64{1}, []float64{math.NaN()})
	require.ErrorIs(t, err, matrix.ErrNaNInf)

	_, err = matrix.AllCloseVec([]float64{1}, nil)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestWithEpsilonPanicsOnInvalid(t *testing.T) {
	require.Panics(t, func() { matrix.WithEpsilon(-1) })
	require.Panics(t, func() { matrix.WithEpsilon(math.NaN()) })
	require.NotPanics(t, func() { matrix.WithEpsilon(0) })
}
