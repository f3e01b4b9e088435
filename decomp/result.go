// SPDX-License-Identifier: MIT

package decomp

import (
	"sort"

	"github.com/katalvlaran/mrio/matrix"
	"github.com/katalvlaran/mrio/producer"
)

// Contribution is one entry of the contribution vector r.
type Contribution struct {
	Producer producer.Key `json:"producer"`
	Value    float64      `json:"value"`
}

// Result is the outcome of one Decompose call. It is owned by the caller;
// nothing in this package keeps a reference to it.
//
// Invariants:
//   - Total == Direct + DomesticIndirect + ForeignIndirect.
//   - DomesticTotal + ForeignTotal == Σ Contributions (partition completeness).
//   - Under PolicyMinusDirect Total == Σ Contributions; under
//     PolicyExcludeDiagonal Total == Σ Contributions + Direct − Diagonal.
type Result struct {
	Stressor         string         `json:"stressor"`
	Target           producer.Key   `json:"col_key"`
	Direct           float64        `json:"direct"`
	DomesticIndirect float64        `json:"domestic_indirect"`
	ForeignIndirect  float64        `json:"foreign_indirect"`
	Total            float64        `json:"total"`
	DomesticTotal    float64        `json:"domestic_total"`
	ForeignTotal     float64        `json:"foreign_total"`
	Diagonal         float64        `json:"diagonal"`
	Policy           Policy         `json:"domestic_indirect_definition"`
	Contributions    []Contribution `json:"r_column"`

	idx *producer.Index
}

// Sum returns Σ r over all producers, in index order.
func (r *Result) Sum() float64 {
	vals := make([]float64, len(r.Contributions))
	for i, c := range r.Contributions {
		vals[i] = c.Value
	}

	return matrix.SumVec(vals)
}

// Contribution returns r[key].
func (r *Result) Contribution(key producer.Key) (float64, bool) {
	if r.idx != nil {
		i, ok := r.idx.Position(key)
		if !ok {
			return 0, false
		}
		return r.Contributions[i].Value, true
	}
	for _, c := range r.Contributions { // results decoded from JSON carry no index
		if c.Producer == key {
			return c.Value, true
		}
	}

	return 0, false
}

// Scope filters contributions for drill-down displays.
type Scope int

const (
	// ScopeAll keeps every producer.
	ScopeAll Scope = iota
	// ScopeDomestic keeps producers in the target's region.
	ScopeDomestic
	// ScopeForeign keeps producers outside the target's region.
	ScopeForeign
)

// Top returns up to n contributions within scope, largest value first.
// Ties keep index order. n <= 0 returns every contribution in scope.
// Complexity: Time O(p log p), Space O(p).
func (r *Result) Top(n int, scope Scope) []Contribution {
	out := make([]Contribution, 0, len(r.Contributions))
	for _, c := range r.Contributions {
		same := c.Producer.SameRegion(r.Target)
		if (scope == ScopeDomestic && !same) || (scope == ScopeForeign && same) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Value > out[b].Value })
	if n > 0 && len(out) > n {
		out = out[:n]
	}

	return out
}
