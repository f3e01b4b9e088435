// SPDX-License-Identifier: MIT

package producer

import (
	"fmt"
	"strings"
)

// Key identifies one producer: a sector within a region.
// Key is comparable and safe to use as a map key.
type Key struct {
	Region string `json:"region"`
	Sector string `json:"sector"`
}

// K is shorthand for Key{Region: region, Sector: sector}.
func K(region, sector string) Key {
	return Key{Region: region, Sector: sector}
}

// String renders the key as "(region, sector)".
func (k Key) String() string {
	return fmt.Sprintf("(%s, %s)", k.Region, k.Sector)
}

// Compare orders keys by region, then sector, using byte-wise string order.
// Returns -1, 0 or +1.
func (k Key) Compare(o Key) int {
	if c := strings.Compare(k.Region, o.Region); c != 0 {
		return c
	}

	return strings.Compare(k.Sector, o.Sector)
}

// SameRegion reports whether both keys lie in the same region.
func (k Key) SameRegion(o Key) bool { return k.Region == o.Region }
