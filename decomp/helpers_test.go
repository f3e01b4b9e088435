// SPDX-License-Identifier: MIT
// Package decomp_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures for the decomposition tests.
//   - Keep all data finite and well-formed so numeric policy never interferes.

package decomp_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/mrio/producer"
	"github.com/katalvlaran/mrio/table"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

var (
	usCons = producer.K("US", "Construction")
	cnCons = producer.K("CN", "Construction")
)

// mustStressors builds S or fails the test.
func mustStressors(t *testing.T, names []string, cols *producer.Index, values [][]float64) *table.StressorTable {
	t.Helper()
	s, err := table.NewStressorTable(names, cols, values)
	require.NoError(t, err)

	return s
}

// mustLeontief builds L over idx or fails the test.
func mustLeontief(t *testing.T, idx *producer.Index, values [][]float64) *table.LeontiefInverse {
	t.Helper()
	l, err := table.NewLeontiefInverse(idx, idx, values)
	require.NoError(t, err)

	return l
}

// scenario returns the two-producer US/CN construction fixture:
// S[CO2] = {US: 5.0, CN: 2.0}; L[:, US] = {US: 1.2, CN: 0.3}.
func scenario(t *testing.T) (*table.StressorTable, *table.LeontiefInverse) {
	t.Helper()
	idx := producer.MustIndex(usCons, cnCons)
	s := mustStressors(t, []string{"CO2"}, idx, [][]float64{{5.0, 2.0}})
	l := mustLeontief(t, idx, [][]float64{
		{1.2, 0.1},
		{0.3, 1.05},
	})

	return s, l
}

// randomWorld builds a seeded MRIO world with regions×sectors producers,
// non-negative intensities and a Leontief inverse with diagonal ≥ 1.
func randomWorld(t *testing.T, seed int64, regions, sectors int) (*table.StressorTable, *table.LeontiefInverse) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))

	keys := make([]producer.Key, 0, regions*sectors)
	for r := 0; r < regions; r++ {
		for s := 0; s < sectors; s++ {
			keys = append(keys, producer.K(fmt.Sprintf("R%02d", r), fmt.Sprintf("S%02d", s)))
		}
	}
	idx := producer.MustIndex(keys...)
	n := idx.Len()

	sv := [][]float64{make([]float64, n), make([]float64, n)}
	for i := 0; i < n; i++ {
		sv[0][i] = rng.Float64() * 10
		sv[1][i] = rng.Float64()
	}
	lv := make([][]float64, n)
	for i := range lv {
		lv[i] = make([]float64, n)
		for j := range lv[i] {
			lv[i][j] = rng.Float64() * 0.2
		}
		lv[i][i] = 1 + rng.Float64()*0.5
	}

	return mustStressors(t, []string{"CO2", "Water"}, idx, sv), mustLeontief(t, idx, lv)
}
