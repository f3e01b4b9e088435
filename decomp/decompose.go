// SPDX-License-Identifier: MIT

package decomp

import (
	"fmt"

	"github.com/katalvlaran/mrio/matrix"
	"github.com/katalvlaran/mrio/producer"
	"github.com/katalvlaran/mrio/table"
)

// Query selects one decomposition.
//   - Stressor: row of S.
//   - Target:   (region, sector) column of L.
//   - Policy:   domestic-indirect definition; empty means DefaultPolicy.
type Query struct {
	Stressor string
	Target   producer.Key
	Policy   Policy
}

// Decompose runs alignment then the contribution & partition engine.
// Implementation:
//   - Stage 1: resolve the policy (fails before any lookup or arithmetic).
//   - Stage 2: Align the stressor row onto L's index.
//   - Stage 3: r = s ⊙ L[:, j]; split r by region; apply the policy.
//
// Errors:
//   - ErrInvalidPolicy, ErrNilTable, ErrUnknownStressor, ErrUnknownTarget,
//     *AlignmentGapError, ErrNonFinite.
//
// Complexity:
//   - Time O(p), Space O(p).
func Decompose(s *table.StressorTable, l *table.LeontiefInverse, q Query) (*Result, error) {
	policy, err := ParsePolicy(string(q.Policy))
	if err != nil {
		return nil, err
	}
	aligned, err := Align(s, l, q.Stressor, q.Target)
	if err != nil {
		return nil, err
	}
	lcol, _ := l.Column(q.Target) // presence checked by Align

	return partition(q.Stressor, q.Target, l.Producers(), aligned, lcol, policy)
}

// partition is the engine proper. aligned and lcol follow idx.
func partition(stressor string, target producer.Key, idx *producer.Index, aligned, lcol []float64, policy Policy) (*Result, error) {
	r, err := matrix.HadamardVec(aligned, lcol)
	if err != nil {
		return nil, fmt.Errorf("decomp: contributions: %w", err)
	}
	j, _ := idx.Position(target)

	domesticTotal, foreignTotal, err := matrix.PartitionSum(r, idx.RegionMask(target.Region))
	if err != nil {
		return nil, fmt.Errorf("decomp: partition: %w", err)
	}

	direct := aligned[j] // S[k, j], not scaled by L[j, j]
	var domesticIndirect float64
	switch policy {
	case PolicyMinusDirect:
		domesticIndirect = domesticTotal - direct
	case PolicyExcludeDiagonal:
		domesticIndirect = domesticTotal - r[j]
	default:
		return nil, policy.Validate()
	}
	foreignIndirect := foreignTotal
	total := direct + domesticIndirect + foreignIndirect

	if err := matrix.ValidateFiniteVec([]float64{direct, domesticIndirect, foreignIndirect, total}); err != nil {
		return nil, fmt.Errorf("%w: stressor %q target %s", ErrNonFinite, stressor, target)
	}

	contrib := make([]Contribution, len(r))
	for i, v := range r {
		contrib[i] = Contribution{Producer: idx.At(i), Value: v}
	}

	return &Result{
		Stressor:         stressor,
		Target:           target,
		Direct:           direct,
		DomesticIndirect: domesticIndirect,
		ForeignIndirect:  foreignIndirect,
		Total:            total,
		DomesticTotal:    domesticTotal,
		ForeignTotal:     foreignTotal,
		Diagonal:         r[j],
		Policy:           policy,
		Contributions:    contrib,
		idx:              idx,
	}, nil
}
