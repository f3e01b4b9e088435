// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/katalvlaran/mrio/decomp"
	"github.com/katalvlaran/mrio/table"
)

// Palette.
var (
	ColorDirect    = lipgloss.Color("#2E5090")
	ColorDomestic  = lipgloss.Color("#E67E22")
	ColorForeign   = lipgloss.Color("#27AE60")
	ColorAccent    = lipgloss.Color("#95A5A6")
	ColorTextDark  = lipgloss.Color("#2C3E50")
	ColorTextLight = lipgloss.Color("#7F8C8D")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorTextDark)
	subtitleStyle = lipgloss.NewStyle().Italic(true).Foreground(ColorTextLight)
	mutedStyle    = lipgloss.NewStyle().Foreground(ColorTextLight)
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)
)

func componentColor(c Component) lipgloss.Color {
	switch c {
	case ComponentDirect:
		return ColorDirect
	case ComponentDomestic:
		return ColorDomestic
	default:
		return ColorForeign
	}
}

// DefaultUnit describes what one decomposition value is per.
const DefaultUnit = "per 1 M€ final demand"

// Render draws the breakdown as a boxed terminal panel: a title, one row per
// component (swatch, title, kilograms, percent) and the total.
func Render(b Breakdown, unit string) string {
	if unit == "" {
		unit = DefaultUnit
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Emissions decomposition: "+b.Sector+" ("+b.Region+")"),
		subtitleStyle.Render(unit+" • "+b.Stressor),
	)

	valueWidth, titleWidth := 0, 0
	for _, r := range b.Rows {
		valueWidth = max(valueWidth, lipgloss.Width(FormatKg(r.Value)))
		titleWidth = max(titleWidth, lipgloss.Width(r.Title))
	}
	valueWidth = max(valueWidth, lipgloss.Width(FormatKg(b.Total)))

	lines := make([]string, 0, len(b.Rows)+2)
	for _, r := range b.Rows {
		swatch := lipgloss.NewStyle().Foreground(componentColor(r.Component)).Render("■")
		title := lipgloss.NewStyle().Bold(true).Width(titleWidth).Render(r.Title)
		value := lipgloss.NewStyle().Foreground(componentColor(r.Component)).Width(valueWidth).Align(lipgloss.Right).Render(FormatKg(r.Value))
		pct := mutedStyle.Width(7).Align(lipgloss.Right).Render(FormatPercent(r.Percent))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, swatch, " ", title, "  ", value, " ", pct))
	}
	lines = append(lines,
		mutedStyle.Render(strings.Repeat("─", 2+titleWidth+2+valueWidth+1+7)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			"  ", lipgloss.NewStyle().Bold(true).Width(titleWidth).Render("Total"),
			"  ", lipgloss.NewStyle().Bold(true).Width(valueWidth).Align(lipgloss.Right).Render(FormatKg(b.Total)),
		),
		mutedStyle.Render("policy: "+b.Policy),
	)

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(lines, "\n")))
}

// RenderTop draws a ranked table of the largest contributors with their share of total.
func RenderTop(contribs []decomp.Contribution, total float64) string {
	if len(contribs) == 0 {
		return mutedStyle.Render("no contributors")
	}
	rankW := len(strconv.Itoa(len(contribs)))
	nameW, valW := len("Producer"), 0
	for _, c := range contribs {
		nameW = max(nameW, lipgloss.Width(c.Producer.String()))
		valW = max(valW, lipgloss.Width(FormatKg(c.Value)))
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%*s  %-*s  %*s  %7s", rankW, "#", nameW, "Producer", valW, "Value", "Share")))
	for i, c := range contribs {
		sb.WriteByte('\n')
		fmt.Fprintf(&sb, "%*d  %-*s  %*s  %7s",
			rankW, i+1, nameW, c.Producer.String(), valW, FormatKg(c.Value), FormatPercent(Percent(c.Value, total)))
	}

	return sb.String()
}

// RenderCatalog summarizes what a dataset covers.
func RenderCatalog(c table.Catalog) string {
	stat := func(label string, items []string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			titleStyle.Width(11).Render(label),
			lipgloss.NewStyle().Width(6).Align(lipgloss.Right).Render(strconv.Itoa(len(items))),
			"  ", mutedStyle.Render(preview(items, 6)),
		)
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		stat("Regions", c.Regions),
		stat("Sectors", c.Sectors),
		stat("Stressors", c.Stressors),
	))
}

// preview joins up to n items and notes how many were left out.
func preview(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}

	return strings.Join(items[:n], ", ") + fmt.Sprintf(", … (+%d)", len(items)-n)
}
