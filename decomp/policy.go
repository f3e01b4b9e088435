// SPDX-License-Identifier: MIT

package decomp

import (
	"fmt"
	"strings"
)

// Policy selects how the domestic-indirect component is derived from the
// domestic sum.
type Policy string

const (
	// PolicyMinusDirect: domestic_indirect = domestic_total − direct.
	PolicyMinusDirect Policy = "minus_direct"

	// PolicyExcludeDiagonal: domestic_indirect = domestic_total − r[j].
	PolicyExcludeDiagonal Policy = "exclude_diagonal"

	// DefaultPolicy is used when a query leaves the policy empty.
	DefaultPolicy = PolicyMinusDirect
)

// Policies lists the accepted values in documentation order.
func Policies() []Policy {
	return []Policy{PolicyMinusDirect, PolicyExcludeDiagonal}
}

// ParsePolicy maps a raw value to a Policy. The empty string yields
// DefaultPolicy; any other unknown value fails with ErrInvalidPolicy.
func ParsePolicy(raw string) (Policy, error) {
	p := Policy(raw)
	if p == "" {
		return DefaultPolicy, nil
	}
	if err := p.Validate(); err != nil {
		return "", err
	}

	return p, nil
}

// Validate returns ErrInvalidPolicy (naming the accepted set) for unknown values.
func (p Policy) Validate() error {
	switch p {
	case PolicyMinusDirect, PolicyExcludeDiagonal:
		return nil
	}
	accepted := make([]string, 0, 2)
	for _, a := range Policies() {
		accepted = append(accepted, string(a))
	}

	return fmt.Errorf("%w: %q (accepted: %s)", ErrInvalidPolicy, string(p), strings.Join(accepted, ", "))
}

// String implements fmt.Stringer.
func (p Policy) String() string { return string(p) }
