// SPDX-License-Identifier: MIT

package table

import "sort"

// Catalog lists what a StressorTable can be queried for, each list sorted.
type Catalog struct {
	Stressors []string `json:"stressors"`
	Regions   []string `json:"regions"`
	Sectors   []string `json:"sectors"`
}

// BuildCatalog extracts sorted unique stressors, regions and sectors from s.
// A nil table yields an empty catalog.
func BuildCatalog(s *StressorTable) Catalog {
	if s == nil {
		return Catalog{Stressors: []string{}, Regions: []string{}, Sectors: []string{}}
	}
	stressors := s.Stressors() // unique by construction
	sort.Strings(stressors)

	return Catalog{
		Stressors: stressors,
		Regions:   s.cols.Regions(),
		Sectors:   s.cols.Sectors(),
	}
}
