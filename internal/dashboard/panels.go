package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"htrack/internal/api"
	"htrack/internal/i18n"
	"htrack/internal/nav"
)

// PanelKind names a dashboard panel.
type PanelKind string

const (
	PanelMeals        PanelKind = "meals"
	PanelTrends       PanelKind = "trends"
	PanelCorrelations PanelKind = "correlations"
	PanelSleep        PanelKind = "sleep"
	PanelTriggers     PanelKind = "triggers"
)

// PanelState is the render state of a panel.
type PanelState int

const (
	PanelLoading PanelState = iota
	PanelReady
	PanelEmpty
	PanelError
)

// Link points the user at a page that can fix or fill a panel.
type Link struct {
	Label string
	Page  nav.Page
}

// Status is shared by every panel. Message and Link are set for the Empty
// and Error states.
type Status struct {
	State   PanelState
	Message string
	Link    *Link
}

// MealsPanel shows today's meals.
type MealsPanel struct {
	Status
	Title string
	Cards []MealCard
}

// MealCard is one meal.
type MealCard struct {
	ID        int
	Type      string
	TypeLabel string
	Time      string
	Notes     string
	Foods     []FoodLine
}

// FoodLine is one food item of a meal.
type FoodLine struct {
	Name   string
	Amount string
	Notes  string
}

// TrendsPanel shows average feelings and a chart.
type TrendsPanel struct {
	Status
	Title        string
	AvgPhysical  float64
	AvgMental    float64
	PhysicalText string
	MentalText   string
	Chart        Chart
}

// Chart is a line chart with a shared vertical scale. NaN marks a gap.
type Chart struct {
	Labels []string
	Series []Series
	Min    float64
	Max    float64
}

// Series is one line of a chart.
type Series struct {
	Name   string
	Values []float64
}

// CorrelationsPanel lists recent days with the foods eaten the day before.
type CorrelationsPanel struct {
	Status
	Title        string
	DaysAnalyzed int
	Summary      string
	Headers      []string
	Rows         []CorrelationRow
}

// CorrelationRow is one day.
type CorrelationRow struct {
	Date   string
	Rating int
	Stars  string
	Foods  string
}

func ready() Status { return Status{State: PanelReady} }

func buildMealsPanel(msgs *i18n.Printer, meals []api.Meal, loc *time.Location) MealsPanel {
	p := MealsPanel{Title: msgs.T(i18n.MsgTodaysMeals)}
	if len(meals) == 0 {
		p.Status = Status{
			State:   PanelEmpty,
			Message: msgs.T(i18n.MsgNoMealsToday),
			Link:    &Link{Label: msgs.T(i18n.MsgAddMeal), Page: nav.MealForm},
		}
		return p
	}
	p.Status = ready()
	for _, m := range meals {
		card := MealCard{
			ID:        m.ID,
			Type:      m.MealType,
			TypeLabel: msgs.MealType(m.MealType),
			Time:      m.DateTime.In(loc).Format("15:04"),
			Notes:     m.Notes,
		}
		if card.Notes == "" {
			card.Notes = msgs.T(i18n.MsgNoNotes)
		}
		for _, f := range m.Foods {
			card.Foods = append(card.Foods, FoodLine{Name: f.Name, Amount: f.Amount.String() + "g", Notes: f.Notes})
		}
		p.Cards = append(p.Cards, card)
	}
	return p
}

func mealsError(msgs *i18n.Printer) MealsPanel {
	return MealsPanel{
		Title: msgs.T(i18n.MsgTodaysMeals),
		Status: Status{
			State:   PanelError,
			Message: msgs.T(i18n.MsgMealsLoadFailed),
			Link:    &Link{Label: msgs.T(i18n.MsgAddMeal), Page: nav.MealForm},
		},
	}
}

func buildTrendsPanel(msgs *i18n.Printer, tr *api.HealthTrends) TrendsPanel {
	p := TrendsPanel{Title: msgs.T(i18n.MsgHealthTrends)}
	if tr == nil || len(tr.PhysicalFeeling) == 0 {
		p.Status = Status{
			State:   PanelEmpty,
			Message: msgs.T(i18n.MsgNoHealthData),
			Link:    &Link{Label: msgs.T(i18n.MsgAddHealthLog), Page: nav.HealthLogForm},
		}
		return p
	}
	p.Status = ready()
	p.AvgPhysical = round1(mean(tr.PhysicalFeeling))
	p.AvgMental = round1(mean(tr.MentalFeeling))
	p.PhysicalText = fmt.Sprintf("%.1f/5", p.AvgPhysical)
	p.MentalText = fmt.Sprintf("%.1f/5", p.AvgMental)

	// The physical series defines the x axis; mental samples are matched
	// by date.
	mental := make(map[string]float64, len(tr.MentalFeeling))
	for _, pt := range tr.MentalFeeling {
		mental[pt.Date] = float64(pt.Value)
	}
	phys := Series{Name: msgs.T(i18n.MsgPhysicalFeeling)}
	ment := Series{Name: msgs.T(i18n.MsgMentalFeeling)}
	for _, pt := range tr.PhysicalFeeling {
		p.Chart.Labels = append(p.Chart.Labels, shortDate(pt.Date))
		phys.Values = append(phys.Values, float64(pt.Value))
		if v, ok := mental[pt.Date]; ok {
			ment.Values = append(ment.Values, v)
		} else {
			ment.Values = append(ment.Values, math.NaN())
		}
	}
	p.Chart.Series = []Series{phys, ment}
	p.Chart.Min, p.Chart.Max = 1, 5
	return p
}

func trendsError(msgs *i18n.Printer) TrendsPanel {
	return TrendsPanel{
		Title: msgs.T(i18n.MsgHealthTrends),
		Status: Status{
			State:   PanelError,
			Message: msgs.T(i18n.MsgTrendsLoadFailed),
			Link:    &Link{Label: msgs.T(i18n.MsgAddHealthLog), Page: nav.HealthLogForm},
		},
	}
}

func buildCorrelationsPanel(msgs *i18n.Printer, corr []api.FoodCorrelation, maxRows int) CorrelationsPanel {
	p := CorrelationsPanel{Title: msgs.T(i18n.MsgFoodInsights), DaysAnalyzed: len(corr)}
	if len(corr) == 0 {
		p.Status = Status{State: PanelEmpty, Message: msgs.T(i18n.MsgNotEnoughData)}
		return p
	}
	p.Status = ready()
	p.Summary = msgs.T(i18n.MsgDaysAnalyzed, len(corr))
	p.Headers = []string{msgs.T(i18n.MsgColDate), msgs.T(i18n.MsgColFeeling), msgs.T(i18n.MsgColFoodsBefore)}

	sorted := append([]api.FoodCorrelation(nil), corr...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })
	if len(sorted) > maxRows {
		sorted = sorted[:maxRows]
	}
	for _, c := range sorted {
		p.Rows = append(p.Rows, CorrelationRow{
			Date:   longDate(c.Date),
			Rating: clampRating(c.PhysicalFeeling),
			Stars:  Stars(c.PhysicalFeeling),
			Foods:  foodList(msgs, c.FoodsEatenPreviousDay),
		})
	}
	return p
}

func correlationsError(msgs *i18n.Printer) CorrelationsPanel {
	return CorrelationsPanel{
		Title: msgs.T(i18n.MsgFoodInsights),
		Status: Status{
			State:   PanelError,
			Message: msgs.T(i18n.MsgInsightsFailed),
			Link:    &Link{Label: msgs.T(i18n.MsgTryAgain), Page: nav.Dashboard},
		},
	}
}

// Stars renders a 1-5 rating as filled and empty stars.
func Stars(rating int) string {
	r := clampRating(rating)
	return strings.Repeat("★", r) + strings.Repeat("☆", 5-r)
}

func clampRating(r int) int {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

func foodList(msgs *i18n.Printer, foods []api.FoodAmount) string {
	if len(foods) == 0 {
		return msgs.T(i18n.MsgNoMealsFound)
	}
	parts := make([]string, len(foods))
	for i, f := range foods {
		parts[i] = fmt.Sprintf("%s (%s)", f.Name, f.Amount)
	}
	return strings.Join(parts, ", ")
}

func mean(pts []api.TrendPoint) float64 {
	if len(pts) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pts {
		sum += float64(p.Value)
	}
	return sum / float64(len(pts))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// shortDate turns 2024-06-02 into 2.6.
func shortDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d.%d", t.Day(), int(t.Month()))
}

// longDate turns 2024-06-02 into 2.6.2024.
func longDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d.%d.%d", t.Day(), int(t.Month()), t.Year())
}
