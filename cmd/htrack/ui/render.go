package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"htrack/internal/api"
	"htrack/internal/dashboard"
	"htrack/internal/history"
	"htrack/internal/i18n"
	"htrack/internal/nav"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// Renderer turns view-models into styled text. The CLI prints its output
// directly; the interactive pages embed it.
type Renderer struct {
	Styles Styles
	Msgs   *i18n.Printer
	Width  int
}

// NewRenderer creates a renderer for the given width.
func NewRenderer(s Styles, msgs *i18n.Printer, width int) Renderer {
	if width <= 0 {
		width = MinimumTerminalWidth
	}
	return Renderer{Styles: s, Msgs: msgs, Width: width}
}

func (r Renderer) layout() LayoutConfig {
	return NewLayoutConfig(r.Width+ViewportHorizontalPadding, 0)
}

// Alert renders a success or error alert line.
func (r Renderer) Alert(a nav.Alert) string {
	if a.Kind == nav.AlertError {
		return r.Styles.Error.Render("✗ " + a.Text)
	}
	return r.Styles.Success.Render("✓ " + a.Text)
}

// Status renders the non-ready states of a panel. Ready renders nothing.
func (r Renderer) Status(st dashboard.Status) string {
	var line string
	switch st.State {
	case dashboard.PanelReady:
		return ""
	case dashboard.PanelLoading:
		return r.Styles.Muted.Render(r.Msgs.T(i18n.MsgLoading))
	case dashboard.PanelError:
		line = r.Styles.Error.Render(st.Message)
	default:
		line = r.Styles.Muted.Render(st.Message)
	}
	if st.Link != nil {
		line += "\n" + r.Styles.Link.Render("→ "+st.Link.Label)
	}
	return line
}

func (r Renderer) panel(title, body string) string {
	w := r.layout().PanelWidth()
	content := r.Styles.Title.Render(title) + "\n" + body
	return r.Styles.Card.Width(w - 2*PanelBorderWidth).Render(strings.TrimRight(content, "\n"))
}

func (r Renderer) wrap(s string) string {
	return wordwrap.String(s, PanelContentWidth(r.layout().PanelWidth()))
}

// MealsPanel renders today's meals.
func (r Renderer) MealsPanel(p dashboard.MealsPanel) string {
	if p.State != dashboard.PanelReady {
		return r.panel(p.Title, r.Status(p.Status))
	}
	var sb strings.Builder
	for i, c := range p.Cards {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.Styles.Bold.Render(c.TypeLabel) + " " + r.Styles.Muted.Render(c.Time) + "\n")
		for _, f := range c.Foods {
			line := "• " + f.Name + " " + f.Amount
			if f.Notes != "" {
				line += " (" + f.Notes + ")"
			}
			sb.WriteString(r.wrap(line) + "\n")
		}
		sb.WriteString(r.Styles.Subtitle.Render(r.wrap(c.Notes)) + "\n")
	}
	return r.panel(p.Title, sb.String())
}

// TrendsPanel renders the average feelings and the chart.
func (r Renderer) TrendsPanel(p dashboard.TrendsPanel) string {
	if p.State != dashboard.PanelReady {
		return r.panel(p.Title, r.Status(p.Status))
	}
	body := fmt.Sprintf("%s: %s\n%s: %s\n\n%s",
		r.Msgs.T(i18n.MsgAvgPhysical), r.Styles.Bold.Render(p.PhysicalText),
		r.Msgs.T(i18n.MsgAvgMental), r.Styles.Bold.Render(p.MentalText),
		RenderChart(r.Styles, p.Chart, PanelContentWidth(r.layout().PanelWidth())))
	return r.panel(p.Title, body)
}

// CorrelationsPanel renders the most recent days with the foods eaten the
// day before.
func (r Renderer) CorrelationsPanel(p dashboard.CorrelationsPanel) string {
	if p.State != dashboard.PanelReady {
		return r.panel(p.Title, r.Status(p.Status))
	}
	t := NewTable("", p.Headers...)
	t.MaxCell = max(PanelContentWidth(r.layout().PanelWidth())-30, 16)
	for _, row := range p.Rows {
		t.AddRow(row.Date, row.Stars, row.Foods)
	}
	return r.panel(p.Title, r.Styles.Subtitle.Render(p.Summary)+"\n"+t.View(r.Styles))
}

// SleepPanel renders the sleep averages and quality trend.
func (r Renderer) SleepPanel(p dashboard.SleepPanel) string {
	if p.State != dashboard.PanelReady {
		return r.panel(p.Title, r.Status(p.Status))
	}
	body := fmt.Sprintf("%s: %s\n%s: %s\n%s: %s\n\n%s",
		r.Msgs.T(i18n.MsgAvgDuration), r.Styles.Bold.Render(r.Msgs.T(i18n.MsgHours, p.DurationText)),
		r.Msgs.T(i18n.MsgAvgQuality), r.Styles.Bold.Render(p.QualityText),
		r.Msgs.T(i18n.MsgAvgEnergy), r.Styles.Bold.Render(p.EnergyText),
		RenderChart(r.Styles, p.Chart, PanelContentWidth(r.layout().PanelWidth())))
	return r.panel(p.Title, body)
}

// TriggersPanel renders the suspected trigger foods.
func (r Renderer) TriggersPanel(p dashboard.TriggersPanel) string {
	if p.State != dashboard.PanelReady {
		return r.panel(p.Title, r.Status(p.Status))
	}
	t := NewTable("", r.Msgs.T(i18n.MsgFieldFood), r.Msgs.T(i18n.MsgColCount))
	for _, row := range p.Rows {
		t.AddRow(row.Food, strconv.Itoa(row.Count))
	}
	return r.panel(p.Title, t.View(r.Styles))
}

// grid places blocks two per row on wide terminals and stacks them on
// compact ones.
func (r Renderer) grid(blocks ...string) string {
	if r.layout().IsCompact {
		return lipgloss.JoinVertical(lipgloss.Left, blocks...)
	}
	var rows []string
	for i := 0; i < len(blocks); i += 2 {
		if i+1 < len(blocks) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, blocks[i], strings.Repeat(" ", GridGap), blocks[i+1]))
		} else {
			rows = append(rows, blocks[i])
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Dashboard renders all three panels.
func (r Renderer) Dashboard(d *dashboard.Dashboard) string {
	return r.grid(r.MealsPanel(d.Meals), r.TrendsPanel(d.Trends), r.CorrelationsPanel(d.Correlations))
}

// Insights renders the sleep and triggers panels.
func (r Renderer) Insights(in *dashboard.Insights) string {
	return r.grid(r.SleepPanel(in.Sleep), r.TriggersPanel(in.Triggers))
}

// FilterSummary describes the active history filter in one line.
func (r Renderer) FilterSummary(f history.Filter) string {
	if f.IsZero() {
		return r.Msgs.T(i18n.MsgFilterLabel, r.Msgs.T(i18n.MsgAllMeals))
	}
	var parts []string
	if len(f.MealTypes) > 0 {
		labels := make([]string, len(f.MealTypes))
		for i, t := range f.MealTypes {
			labels[i] = r.Msgs.MealType(t)
		}
		parts = append(parts, strings.Join(labels, ", "))
	}
	if f.Date != "" {
		parts = append(parts, f.Date)
	}
	if f.From != "" || f.To != "" {
		parts = append(parts, f.From+".."+f.To)
	}
	if f.Food != "" {
		parts = append(parts, strconv.Quote(f.Food))
	}
	return r.Msgs.T(i18n.MsgFilterLabel, strings.Join(parts, " · "))
}

// History renders one page of the meal history. selected is the index of
// the highlighted card, or -1.
func (r Renderer) History(v history.View, selected int) string {
	var sb strings.Builder
	sb.WriteString(r.Styles.Subtitle.Render(r.FilterSummary(v.Filter)))
	sb.WriteString("\n\n")

	switch {
	case v.State == history.StateLoading:
		sb.WriteString(r.Styles.Muted.Render(v.Message))
		return sb.String()
	case v.State == history.StateError:
		sb.WriteString(r.Styles.Error.Render(v.Message))
		sb.WriteString("\n" + r.Styles.Link.Render("→ "+r.Msgs.T(i18n.MsgReload)))
		return sb.String()
	case v.Empty:
		sb.WriteString(r.Styles.Muted.Render(v.Message))
		if v.Link != nil {
			sb.WriteString("\n" + r.Styles.Link.Render("→ "+v.Link.Title(r.Msgs)))
		}
		return sb.String()
	}

	sb.WriteString(r.Styles.Muted.Render(r.Msgs.T(i18n.MsgShowingMeals, len(v.Cards), v.Filtered)))
	sb.WriteString("\n")

	cards := make([]string, len(v.Cards))
	for i, c := range v.Cards {
		cards[i] = r.mealCard(c, i == selected, v.Mode)
	}
	if v.Mode == history.ViewGrid {
		sb.WriteString(r.cardGrid(cards))
	} else {
		sb.WriteString(strings.Join(cards, "\n"))
	}
	sb.WriteString("\n")
	sb.WriteString(r.Styles.Muted.Render(r.Msgs.T(i18n.MsgPageOf, v.Page+1, v.Pages)))
	return sb.String()
}

func (r Renderer) mealCard(c history.Card, selected bool, mode history.ViewMode) string {
	head := fmt.Sprintf("#%d  %s %s  %s", c.ID, c.Date, c.Time, r.Styles.Bold.Render(c.TypeLabel))
	if selected {
		head = r.Styles.Selected.Render("▸ ") + head
	}
	lines := []string{head}
	for _, f := range c.Foods {
		line := "  • " + f.Name + " " + f.Amount
		if f.Notes != "" {
			line += " (" + f.Notes + ")"
		}
		lines = append(lines, line)
	}
	if c.Notes != "" {
		lines = append(lines, r.Styles.Subtitle.Render("  "+c.Notes))
	}
	body := strings.Join(lines, "\n")
	if mode != history.ViewGrid {
		return body
	}
	style := r.Styles.Card.Width(r.gridCardWidth())
	if selected {
		style = style.BorderForeground(r.Styles.Theme.Accent)
	}
	return style.Render(wordwrap.String(body, r.gridCardWidth()-2))
}

func (r Renderer) gridColumns() int {
	if r.layout().IsCompact {
		return 2
	}
	return 3
}

func (r Renderer) gridCardWidth() int {
	n := r.gridColumns()
	return max((r.Width-(n-1)*GridGap)/n-2*PanelBorderWidth, 20)
}

func (r Renderer) cardGrid(cards []string) string {
	n := r.gridColumns()
	var rows []string
	for i := 0; i < len(cards); i += n {
		end := min(i+n, len(cards))
		row := make([]string, 0, 2*(end-i))
		for j, c := range cards[i:end] {
			if j > 0 {
				row = append(row, strings.Repeat(" ", GridGap))
			}
			row = append(row, c)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Patterns renders the meal pattern statistics.
func (r Renderer) Patterns(p *api.MealPatterns) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s\n", r.Msgs.T(i18n.MsgTotalMeals), r.Styles.Bold.Render(strconv.Itoa(p.TotalMeals))))
	sb.WriteString(fmt.Sprintf("%s: %s\n\n", r.Msgs.T(i18n.MsgAvgPerDay), r.Styles.Bold.Render(p.AveragePerDay.String())))

	types := make([]string, 0, len(p.ByType))
	for t := range p.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	byType := NewTable("", r.Msgs.T(i18n.MsgFieldMealType), r.Msgs.T(i18n.MsgColCount))
	for _, t := range types {
		byType.AddRow(r.Msgs.MealType(t), strconv.Itoa(p.ByType[t]))
	}
	sb.WriteString(byType.View(r.Styles))

	top := NewTable(r.Msgs.T(i18n.MsgTopFoods), r.Msgs.T(i18n.MsgFieldFood), r.Msgs.T(i18n.MsgColCount))
	for _, f := range p.TopFoods {
		top.AddRow(f.Name, strconv.Itoa(f.Count))
	}
	if len(p.TopFoods) > 0 {
		sb.WriteString("\n")
		sb.WriteString(top.View(r.Styles))
	}
	return sb.String()
}

// Foods renders the food catalog.
func (r Renderer) Foods(foods []api.Food) string {
	t := NewTable("", "ID", r.Msgs.T(i18n.MsgFieldFood), "kcal")
	for _, f := range foods {
		t.AddRow(strconv.Itoa(f.ID), f.Name, f.Calories.String())
	}
	return t.View(r.Styles)
}
