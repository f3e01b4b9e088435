// SPDX-License-Identifier: MIT

package report

import (
	"github.com/katalvlaran/mrio/decomp"
)

// Component identifies one part of the three-way split.
type Component string

const (
	ComponentDirect   Component = "direct"
	ComponentDomestic Component = "domestic"
	ComponentForeign  Component = "foreign"
)

// Row is one line of a breakdown.
type Row struct {
	Component Component `json:"component"`
	Title     string    `json:"title"` // "Direct (on-site intensity)"
	Label     string    `json:"label"` // "US (Direct)"
	Value     float64   `json:"value"`
	Percent   float64   `json:"percent"`
}

// Breakdown is the presentation form of a decomp.Result.
type Breakdown struct {
	Stressor string  `json:"stressor"`
	Region   string  `json:"region"`
	Sector   string  `json:"sector"`
	Policy   string  `json:"policy"`
	Rows     []Row   `json:"rows"`
	Total    float64 `json:"total"`
}

// NewBreakdown builds the direct / domestic / foreign rows of res.
// Percentages are shares of res.Total.
func NewBreakdown(res *decomp.Result) Breakdown {
	region := res.Target.Region
	parts := [...]struct {
		c     Component
		title string
		label string
		v     float64
	}{
		{ComponentDirect, "Direct (on-site intensity)", region + " (Direct)", res.Direct},
		{ComponentDomestic, "Domestic supply chain", region + " (Indirect)", res.DomesticIndirect},
		{ComponentForeign, "Foreign supply chain", "Rest of world (Indirect)", res.ForeignIndirect},
	}
	rows := make([]Row, 0, len(parts))
	for _, p := range parts {
		rows = append(rows, Row{
			Component: p.c,
			Title:     p.title,
			Label:     p.label,
			Value:     p.v,
			Percent:   Percent(p.v, res.Total),
		})
	}

	return Breakdown{
		Stressor: res.Stressor,
		Region:   region,
		Sector:   res.Target.Sector,
		Policy:   string(res.Policy),
		Rows:     rows,
		Total:    res.Total,
	}
}
