package ui

import (
	"fmt"
	"math"
	"strings"

	"htrack/internal/dashboard"

	"github.com/charmbracelet/lipgloss"
)

var seriesMarks = []string{"●", "◆", "▲"}

// RenderChart draws c as a dot chart, one row per integer step between Min
// and Max and one column per label. When the labels do not fit in width the
// most recent ones are kept. NaN values leave a gap.
func RenderChart(s Styles, c dashboard.Chart, width int) string {
	if len(c.Labels) == 0 || len(c.Series) == 0 {
		return ""
	}
	lo, hi := int(math.Floor(c.Min)), int(math.Ceil(c.Max))
	if hi <= lo {
		hi = lo + 1
	}

	first := 0
	if cols := (width - ChartLabelWidth - 1) / ChartColumn; cols > 0 && len(c.Labels) > cols {
		first = len(c.Labels) - cols
	}
	labels := c.Labels[first:]

	var sb strings.Builder
	for y := hi; y >= lo; y-- {
		sb.WriteString(s.Muted.Render(fmt.Sprintf("%*d", ChartLabelWidth, y)))
		sb.WriteString(s.Muted.Render("│"))
		for i := range labels {
			sb.WriteString(lipgloss.PlaceHorizontal(ChartColumn, lipgloss.Center, chartCell(s, c.Series, first+i, y)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat(" ", ChartLabelWidth))
	sb.WriteString(s.Muted.Render("└" + strings.Repeat("─", len(labels)*ChartColumn)))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", ChartLabelWidth+1))
	for _, l := range labels {
		sb.WriteString(s.Muted.Render(lipgloss.PlaceHorizontal(ChartColumn, lipgloss.Center, l)))
	}
	sb.WriteString("\n")

	legend := make([]string, len(c.Series))
	for i, ser := range c.Series {
		legend[i] = seriesStyle(s, i).Render(seriesMarks[i%len(seriesMarks)]) + " " + ser.Name
	}
	sb.WriteString(strings.Join(legend, "   "))
	return sb.String()
}

// chartCell returns the marks of every series whose value at col rounds to y.
func chartCell(s Styles, series []dashboard.Series, col, y int) string {
	var marks []string
	for i, ser := range series {
		if col >= len(ser.Values) {
			continue
		}
		v := ser.Values[col]
		if math.IsNaN(v) || int(math.Round(v)) != y {
			continue
		}
		marks = append(marks, seriesStyle(s, i).Render(seriesMarks[i%len(seriesMarks)]))
	}
	return strings.Join(marks, "")
}

func seriesStyle(s Styles, i int) lipgloss.Style {
	if len(s.Series) == 0 {
		return s.Body
	}
	return s.Series[i%len(s.Series)]
}
