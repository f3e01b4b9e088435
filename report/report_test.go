// SPDX-License-Identifier: MIT
package report_test

import (
	"math"
	"strings"
	"testing"

	"github.com/katalvlaran/mrio/decomp"
	"github.com/katalvlaran/mrio/producer"
	"github.com/katalvlaran/mrio/report"
	"github.com/katalvlaran/mrio/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatKg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0 kg"},
		{6.6, "7 kg"},
		{999.4, "999 kg"},
		{1000, "1,000 kg"},
		{1234567.8, "1,234,568 kg"},
		{-9876543, "-9,876,543 kg"},
		{2.5, "2 kg"},
		{3.5, "4 kg"},
		{123456, "123,456 kg"},
		{math.Inf(1), "+Inf kg"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, report.FormatKg(tc.in))
		})
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, report.Percent(5, 0))
	assert.InDelta(t, 25.0, report.Percent(1, 4), 1e-12)
	assert.InDelta(t, -50.0, report.Percent(-1, 2), 1e-12)
	assert.Equal(t, "12.3%", report.FormatPercent(12.345))
}

func result(t *testing.T) *decomp.Result {
	t.Helper()
	us := producer.K("US", "Construction")
	cn := producer.K("CN", "Construction")
	idx := producer.MustIndex(us, cn)
	s, err := table.NewStressorTable([]string{"CO2"}, idx, [][]float64{{5000, 2000}})
	require.NoError(t, err)
	l, err := table.NewLeontiefInverse(idx, idx, [][]float64{{1.2, 0.1}, {0.3, 1.05}})
	require.NoError(t, err)
	res, err := decomp.Decompose(s, l, decomp.Query{Stressor: "CO2", Target: us})
	require.NoError(t, err)

	return res
}

func TestNewBreakdown(t *testing.T) {
	t.Parallel()
	b := report.NewBreakdown(result(t))

	require.Len(t, b.Rows, 3)
	assert.Equal(t, "Direct (on-site intensity)", b.Rows[0].Title)
	assert.Equal(t, "US (Direct)", b.Rows[0].Label)
	assert.Equal(t, "Domestic supply chain", b.Rows[1].Title)
	assert.Equal(t, "US (Indirect)", b.Rows[1].Label)
	assert.Equal(t, "Foreign supply chain", b.Rows[2].Title)
	assert.Equal(t, "Rest of world (Indirect)", b.Rows[2].Label)

	assert.InDelta(t, 6600, b.Total, 1e-9)
	assert.InDelta(t, 100*5000/6600.0, b.Rows[0].Percent, 1e-9)
	var sum float64
	for _, r := range b.Rows {
		sum += r.Percent
	}
	assert.InDelta(t, 100, sum, 1e-9)
	assert.Equal(t, "minus_direct", b.Policy)
}

func TestBreakdownZeroTotal(t *testing.T) {
	t.Parallel()
	res := &decomp.Result{Stressor: "CO2", Target: producer.K("US", "A")}
	b := report.NewBreakdown(res)
	for _, r := range b.Rows {
		assert.Equal(t, 0.0, r.Percent)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()
	out := report.Render(report.NewBreakdown(result(t)), "")

	for _, want := range []string{
		"Emissions decomposition: Construction (US)",
		report.DefaultUnit,
		"Direct (on-site intensity)",
		"5,000 kg",
		"1,000 kg",
		"600 kg",
		"6,600 kg",
		"75.8%",
		"policy: minus_direct",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderTop(t *testing.T) {
	t.Parallel()
	res := result(t)
	out := report.RenderTop(res.Top(2, decomp.ScopeAll), res.Total)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "(US, Construction)")
	assert.Contains(t, lines[1], "6,000 kg")
	assert.Contains(t, lines[2], "(CN, Construction)")

	assert.Contains(t, report.RenderTop(nil, 0), "no contributors")
}

func TestRenderCatalog(t *testing.T) {
	t.Parallel()
	out := report.RenderCatalog(table.Catalog{
		Regions:   []string{"CN", "US"},
		Sectors:   []string{"A", "B", "C", "D", "E", "F", "G", "H"},
		Stressors: []string{"CO2"},
	})
	assert.Contains(t, out, "Regions")
	assert.Contains(t, out, "CN, US")
	assert.Contains(t, out, "(+2)")
}
