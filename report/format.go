// SPDX-License-Identifier: MIT

// Package report turns decomposition results into human-facing output:
// kilogram formatting, percent shares, the three-part breakdown and a
// lipgloss-rendered terminal view.
package report

import (
	"math"
	"strconv"
	"strings"
)

// FormatKg renders x with thousands separators, no decimals and a " kg"
// suffix: 1234567.8 → "1,234,568 kg". Halves round to even.
func FormatKg(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', 0, 64) + " kg"
	}
	digits := strconv.FormatFloat(x, 'f', 0, 64)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	var sb strings.Builder
	sb.Grow(len(digits) + len(digits)/3 + 4)
	sb.WriteString(sign)
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	sb.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		sb.WriteByte(',')
		sb.WriteString(digits[i : i+3])
	}
	sb.WriteString(" kg")

	return sb.String()
}

// Percent returns 100·x/total, or 0 when total is 0.
func Percent(x, total float64) float64 {
	if total == 0 {
		return 0
	}

	return 100 * x / total
}

// FormatPercent renders p with one decimal: 12.345 → "12.3%".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}
