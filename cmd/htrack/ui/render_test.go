package ui

import (
	"math"
	"strings"
	"testing"

	"htrack/internal/api"
	"htrack/internal/dashboard"
	"htrack/internal/history"
	"htrack/internal/i18n"
	"htrack/internal/nav"
)

func testRenderer() Renderer {
	return NewRenderer(NewStyles(LightTheme()), i18n.NewPrinter(i18n.English), 76)
}

func TestTable(t *testing.T) {
	table := NewTable("Top foods", "Food", "Times")
	table.AddRow("Rice", "4")
	table.AddRow("Salad", "12")

	view := table.View(NewStyles(LightTheme()))
	t.Logf("View:\n%s", view)

	for _, want := range []string{"Top foods", "Food", "Times", "Rice", "Salad", "12"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestTable_EmptyRendersNothing(t *testing.T) {
	if got := NewTable("x", "a").View(NewStyles(LightTheme())); got != "" {
		t.Errorf("expected empty view, got %q", got)
	}
}

func TestTable_MaxCellTruncates(t *testing.T) {
	table := NewTable("", "Foods")
	table.MaxCell = 10
	table.AddRow("Rice, Chicken, Salad, Bread")
	view := table.View(NewStyles(LightTheme()))
	if strings.Contains(view, "Bread") {
		t.Error("long cell was not truncated")
	}
	if !strings.Contains(view, "…") {
		t.Error("truncated cell has no tail")
	}
}

func TestRenderChart(t *testing.T) {
	c := dashboard.Chart{
		Labels: []string{"06-08", "06-09", "06-10"},
		Series: []dashboard.Series{
			{Name: "Physical", Values: []float64{3, math.NaN(), 5}},
			{Name: "Mental", Values: []float64{4, 2, 5}},
		},
		Min: 1,
		Max: 5,
	}
	out := RenderChart(NewStyles(LightTheme()), c, 60)
	t.Logf("Chart:\n%s", out)

	for _, want := range []string{"06-08", "06-10", "Physical", "Mental", "●", "◆"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q", want)
		}
	}
	// One row per value from 5 down to 1, the axis, labels and legend.
	if lines := strings.Count(out, "\n") + 1; lines != 8 {
		t.Errorf("expected 8 lines, got %d", lines)
	}
}

func TestRenderChart_KeepsMostRecentColumns(t *testing.T) {
	c := dashboard.Chart{
		Labels: []string{"d1", "d2", "d3", "d4", "d5"},
		Series: []dashboard.Series{{Name: "s", Values: []float64{1, 2, 3, 4, 5}}},
		Min:    1,
		Max:    5,
	}
	// Room for two columns only.
	out := RenderChart(NewStyles(LightTheme()), c, ChartLabelWidth+1+2*ChartColumn)
	if strings.Contains(out, "d3") || !strings.Contains(out, "d4") || !strings.Contains(out, "d5") {
		t.Errorf("expected only the last two labels:\n%s", out)
	}
}

func TestRenderChart_EmptyChart(t *testing.T) {
	if out := RenderChart(NewStyles(LightTheme()), dashboard.Chart{}, 60); out != "" {
		t.Errorf("expected nothing, got %q", out)
	}
}

func TestRenderer_Status(t *testing.T) {
	r := testRenderer()
	st := dashboard.Status{
		State:   dashboard.PanelEmpty,
		Message: "No meals for today.",
		Link:    &dashboard.Link{Label: "Add meal", Page: nav.MealForm},
	}
	out := r.Status(st)
	if !strings.Contains(out, "No meals for today.") || !strings.Contains(out, "Add meal") {
		t.Errorf("status missing message or link: %q", out)
	}
	if r.Status(dashboard.Status{State: dashboard.PanelReady}) != "" {
		t.Error("ready status should render nothing")
	}
}

func TestRenderer_MealsPanel(t *testing.T) {
	r := testRenderer()
	p := dashboard.MealsPanel{
		Status: dashboard.Status{State: dashboard.PanelReady},
		Title:  "Today's meals",
		Cards: []dashboard.MealCard{{
			TypeLabel: "Lunch", Time: "12:30", Notes: "at work",
			Foods: []dashboard.FoodLine{{Name: "Rice", Amount: "200g", Notes: "brown"}},
		}},
	}
	out := r.MealsPanel(p)
	for _, want := range []string{"Today's meals", "Lunch", "12:30", "Rice 200g (brown)", "at work"} {
		if !strings.Contains(out, want) {
			t.Errorf("meals panel missing %q:\n%s", want, out)
		}
	}
}

func TestRenderer_FilterSummary(t *testing.T) {
	r := testRenderer()
	if got := r.FilterSummary(history.Filter{}); got != "Filter: All meals" {
		t.Errorf("zero filter: got %q", got)
	}
	got := r.FilterSummary(history.Filter{MealTypes: []string{"lunch"}, From: "2024-06-01", Food: "rice"})
	for _, want := range []string{"Lunch", "2024-06-01..", `"rice"`} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}

func TestRenderer_HistoryEmptyOffersMealForm(t *testing.T) {
	r := testRenderer()
	link := nav.MealForm
	out := r.History(history.View{State: history.StateLoaded, Empty: true, Message: "No meals found", Link: &link}, 0)
	if !strings.Contains(out, "No meals found") {
		t.Errorf("missing empty message:\n%s", out)
	}
	if !strings.Contains(out, nav.MealForm.Title(r.Msgs)) {
		t.Errorf("missing link to the meal form:\n%s", out)
	}
}

func TestRenderer_HistoryPages(t *testing.T) {
	r := testRenderer()
	v := history.View{
		State:    history.StateLoaded,
		Cards:    []history.Card{{ID: 9, Date: "9.6.2024", Time: "12:30", TypeLabel: "Lunch", Foods: []history.CardFood{{Name: "Rice", Amount: "200 g"}}}},
		Total:    11,
		Filtered: 11,
		Page:     1,
		Pages:    2,
	}
	for _, mode := range []history.ViewMode{history.ViewList, history.ViewGrid} {
		v.Mode = mode
		out := r.History(v, 0)
		for _, want := range []string{"#9", "Rice 200 g", "Page 2 of 2", "Showing 1 of 11 meals"} {
			if !strings.Contains(out, want) {
				t.Errorf("mode %v: missing %q:\n%s", mode, want, out)
			}
		}
	}
}

func TestRenderer_Patterns(t *testing.T) {
	r := testRenderer()
	out := r.Patterns(&api.MealPatterns{
		TotalMeals:    14,
		AveragePerDay: 2,
		ByType:        map[string]int{"lunch": 7, "breakfast": 7},
		TopFoods:      []api.FoodCount{{Name: "Rice", Count: 5}},
	})
	for _, want := range []string{"14", "Breakfast", "Lunch", "Top foods", "Rice", "5"} {
		if !strings.Contains(out, want) {
			t.Errorf("patterns missing %q:\n%s", want, out)
		}
	}
}

func TestThemeFor(t *testing.T) {
	if !ThemeFor("dark").IsDark {
		t.Error("dark theme is not dark")
	}
	if ThemeFor("light").IsDark {
		t.Error("light theme is dark")
	}
	t.Setenv("COLORFGBG", "15;0")
	if !ThemeFor("auto").IsDark {
		t.Error("auto should detect a dark background")
	}
}
