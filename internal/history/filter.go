package history

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"htrack/internal/api"
)

// Query parameter names of the history filter.
const (
	ParamDate     = "date"
	ParamMealType = "mealType"
	ParamFrom     = "from"
	ParamTo       = "to"
	ParamFood     = "food"
)

// Filter is the client-side predicate set applied to the fetched meals.
// Dates are YYYY-MM-DD in the display time zone; empty fields match
// everything.
type Filter struct {
	Date      string
	MealTypes []string
	From      string
	To        string
	Food      string
}

// FilterFromQuery reads a filter from query parameters. Unknown meal types
// and malformed dates are dropped.
func FilterFromQuery(q url.Values) Filter {
	f := Filter{
		Date: validDate(q.Get(ParamDate)),
		From: validDate(q.Get(ParamFrom)),
		To:   validDate(q.Get(ParamTo)),
		Food: strings.TrimSpace(q.Get(ParamFood)),
	}
	for _, v := range q[ParamMealType] {
		for _, t := range strings.Split(v, ",") {
			t = strings.TrimSpace(t)
			if slices.Contains(api.MealTypes, t) && !slices.Contains(f.MealTypes, t) {
				f.MealTypes = append(f.MealTypes, t)
			}
		}
	}
	return f
}

// Query writes the filter as query parameters, omitting empty fields.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Date != "" {
		q.Set(ParamDate, f.Date)
	}
	if len(f.MealTypes) > 0 {
		q.Set(ParamMealType, strings.Join(f.MealTypes, ","))
	}
	if f.From != "" {
		q.Set(ParamFrom, f.From)
	}
	if f.To != "" {
		q.Set(ParamTo, f.To)
	}
	if f.Food != "" {
		q.Set(ParamFood, f.Food)
	}
	return q
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Date == "" && len(f.MealTypes) == 0 && f.From == "" && f.To == "" && f.Food == ""
}

// WithQuickType applies the exclusive quick filter: selecting a type shows
// only that type, selecting the sole active type again clears it.
func (f Filter) WithQuickType(t string) Filter {
	if len(f.MealTypes) == 1 && f.MealTypes[0] == t {
		f.MealTypes = nil
		return f
	}
	f.MealTypes = []string{t}
	return f
}

// ToggleType adds or removes t from the multi-type filter.
func (f Filter) ToggleType(t string) Filter {
	out := make([]string, 0, len(f.MealTypes)+1)
	found := false
	for _, existing := range f.MealTypes {
		if existing == t {
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, t)
	}
	if len(out) == 0 {
		out = nil
	}
	f.MealTypes = out
	return f
}

// Match reports whether m passes every active predicate. Dates compare on
// the meal's local date in loc; the range is inclusive.
func (f Filter) Match(m api.Meal, loc *time.Location) bool {
	day := m.DateTime.In(loc).Format("2006-01-02")
	if f.Date != "" && day != f.Date {
		return false
	}
	if f.From != "" && day < f.From {
		return false
	}
	if f.To != "" && day > f.To {
		return false
	}
	if len(f.MealTypes) > 0 && !slices.Contains(f.MealTypes, m.MealType) {
		return false
	}
	if f.Food != "" {
		needle := strings.ToLower(f.Food)
		for _, food := range m.Foods {
			if strings.Contains(strings.ToLower(food.Name), needle) {
				return true
			}
		}
		return false
	}
	return true
}

// Apply returns the meals that match, in their original order.
func (f Filter) Apply(meals []api.Meal, loc *time.Location) []api.Meal {
	out := make([]api.Meal, 0, len(meals))
	for _, m := range meals {
		if f.Match(m, loc) {
			out = append(out, m)
		}
	}
	return out
}

func validDate(s string) string {
	s = strings.TrimSpace(s)
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}
