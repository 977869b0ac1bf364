package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Meal types accepted by the backend.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealTypes lists the meal types in display order.
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner, MealSnack}

// Stool quality values accepted by the backend.
var StoolQualities = []string{"hard", "normal", "soft", "diarrhea"}

// Decimal is a number the backend may serialize either as a JSON number or
// as a string ("200.00").
type Decimal float64

func (d *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*d = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*d = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("decimal %q: %w", s, err)
	}
	*d = Decimal(f)
	return nil
}

// String trims trailing zeros: 200.00 -> "200", 12.50 -> "12.5".
func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}

// TokenPair is the login response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// User is the authenticated profile.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Food is a catalog entry.
type Food struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Calories Decimal `json:"calories,omitempty"`
}

// MealFood is one food item inside a meal.
type MealFood struct {
	ID     int     `json:"id,omitempty"`
	FoodID int     `json:"food_id"`
	Name   string  `json:"name"`
	Amount Decimal `json:"amount"`
	Notes  string  `json:"notes,omitempty"`
}

func (mf *MealFood) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID       int             `json:"id"`
		FoodID   int             `json:"food_id"`
		Food     json.RawMessage `json:"food"`
		FoodName string          `json:"food_name"`
		Name     string          `json:"name"`
		Amount   Decimal         `json:"amount"`
		Notes    string          `json:"notes"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*mf = MealFood{ID: raw.ID, FoodID: raw.FoodID, Name: raw.Name, Amount: raw.Amount, Notes: raw.Notes}
	if mf.Name == "" {
		mf.Name = raw.FoodName
	}
	// "food" is either a nested object or a bare id.
	if len(raw.Food) > 0 && string(raw.Food) != "null" {
		var nested Food
		if err := json.Unmarshal(raw.Food, &nested); err == nil {
			if mf.FoodID == 0 {
				mf.FoodID = nested.ID
			}
			if mf.Name == "" {
				mf.Name = nested.Name
			}
		} else {
			var id int
			if err := json.Unmarshal(raw.Food, &id); err != nil {
				return fmt.Errorf("meal food: unexpected food value %s", raw.Food)
			}
			if mf.FoodID == 0 {
				mf.FoodID = id
			}
		}
	}
	return nil
}

// Meal is a logged meal.
type Meal struct {
	ID       int        `json:"id"`
	DateTime time.Time  `json:"date_time"`
	MealType string     `json:"meal_type"`
	Notes    string     `json:"notes,omitempty"`
	Foods    []MealFood `json:"foods"`
}

func (m *Meal) UnmarshalJSON(b []byte) error {
	type plain Meal
	// The food list arrives under one of three names depending on the
	// serializer; "foods" shadows the embedded field.
	var raw struct {
		plain
		Foods       json.RawMessage `json:"foods"`
		MealFoods   []MealFood      `json:"meal_foods"`
		MealFoodSet []MealFood      `json:"mealfood_set"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = Meal(raw.plain)
	switch {
	case len(raw.Foods) > 0 && string(raw.Foods) != "null":
		if err := json.Unmarshal(raw.Foods, &m.Foods); err != nil {
			return fmt.Errorf("meal %d foods: %w", m.ID, err)
		}
	case raw.MealFoods != nil:
		m.Foods = raw.MealFoods
	case raw.MealFoodSet != nil:
		m.Foods = raw.MealFoodSet
	}
	return nil
}

// MealInput is the payload for creating a meal.
type MealInput struct {
	DateTime string `json:"date_time"`
	MealType string `json:"meal_type"`
	Notes    string `json:"notes"`
}

// AddFoodInput is the payload for attaching a food to a meal.
type AddFoodInput struct {
	FoodID int    `json:"food_id"`
	Amount int    `json:"amount"`
	Notes  string `json:"notes"`
}

// MealUpdate is the payload for replacing a meal.
type MealUpdate struct {
	DateTime string          `json:"date_time"`
	MealType string          `json:"meal_type"`
	Notes    string          `json:"notes"`
	Foods    []MealFoodInput `json:"foods"`
}

// MealFoodInput is one food item in a MealUpdate.
type MealFoodInput struct {
	FoodID int     `json:"food_id"`
	Name   string  `json:"name,omitempty"`
	Amount float64 `json:"amount"`
	Notes  string  `json:"notes,omitempty"`
}

// HealthLogInput is the payload for a health log entry. Nil pointers
// serialize as null.
type HealthLogInput struct {
	Date            string   `json:"date"`
	PhysicalFeeling int      `json:"physical_feeling"`
	MentalFeeling   int      `json:"mental_feeling"`
	StoolQuality    string   `json:"stool_quality"`
	StoolCount      *int     `json:"stool_count"`
	Symptoms        string   `json:"symptoms"`
	Weight          *float64 `json:"weight"`
	Notes           string   `json:"notes"`
}

// HealthLog is a stored health log entry.
type HealthLog struct {
	ID              int      `json:"id"`
	Date            string   `json:"date"`
	PhysicalFeeling int      `json:"physical_feeling"`
	MentalFeeling   int      `json:"mental_feeling"`
	StoolQuality    string   `json:"stool_quality"`
	StoolCount      *int     `json:"stool_count"`
	Symptoms        string   `json:"symptoms"`
	Weight          *Decimal `json:"weight"`
	Notes           string   `json:"notes"`
}

// SleepInput is the payload for a sleep record.
type SleepInput struct {
	Date        string  `json:"date"`
	Duration    float64 `json:"duration"`
	Quality     int     `json:"quality"`
	WakeUpEase  int     `json:"wake_up_ease"`
	EnergyLevel int     `json:"energy_level"`
	Notes       string  `json:"notes"`
}

// Sleep is a stored sleep record.
type Sleep struct {
	ID          int     `json:"id"`
	Date        string  `json:"date"`
	Duration    Decimal `json:"duration"`
	Quality     int     `json:"quality"`
	WakeUpEase  int     `json:"wake_up_ease"`
	EnergyLevel int     `json:"energy_level"`
	Notes       string  `json:"notes"`
}

// TrendPoint is one sample of a numeric series.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value Decimal `json:"value"`
}

// LabelPoint is one sample of a categorical series.
type LabelPoint struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// HealthTrends is the /analytics/health-trends/ response.
type HealthTrends struct {
	PhysicalFeeling []TrendPoint `json:"physical_feeling"`
	MentalFeeling   []TrendPoint `json:"mental_feeling"`
	StoolQuality    []LabelPoint `json:"stool_quality"`
	Weight          []TrendPoint `json:"weight"`
}

// FoodAmount is a food name with its amount as the backend formats it.
type FoodAmount struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

func (fa *FoodAmount) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name   string  `json:"name"`
		Amount Decimal `json:"amount"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	fa.Name = raw.Name
	fa.Amount = raw.Amount.String()
	return nil
}

// FoodCorrelation pairs one day's health metrics with foods eaten that day
// and the day before.
type FoodCorrelation struct {
	Date                  string       `json:"date"`
	PhysicalFeeling       int          `json:"physical_feeling"`
	MentalFeeling         int          `json:"mental_feeling"`
	StoolQuality          string       `json:"stool_quality"`
	FoodsEatenSameDay     []FoodAmount `json:"foods_eaten_same_day"`
	FoodsEatenPreviousDay []FoodAmount `json:"foods_eaten_previous_day"`
}

// SleepAnalysis is the /analytics/sleep-analysis/ response.
type SleepAnalysis struct {
	AverageDuration Decimal      `json:"average_duration"`
	AverageQuality  Decimal      `json:"average_quality"`
	AverageEnergy   Decimal      `json:"average_energy"`
	QualityTrend    []TrendPoint `json:"quality_trend"`
	DurationTrend   []TrendPoint `json:"duration_trend"`
}

// SymptomTrigger is a food that frequently preceded a bad day.
type SymptomTrigger struct {
	Food  string `json:"food"`
	Count int    `json:"count"`
}

// MealPatterns is the /analytics/meals/ response.
type MealPatterns struct {
	TotalMeals    int            `json:"total_meals"`
	ByType        map[string]int `json:"by_type"`
	TopFoods      []FoodCount    `json:"top_foods"`
	AveragePerDay Decimal        `json:"average_per_day"`
}

// FoodCount is a food with an occurrence count.
type FoodCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ShareRequest asks the backend to email a link to a set of meals.
type ShareRequest struct {
	RecipientEmail string `json:"recipientEmail"`
	ExpirationDate string `json:"expirationDate"`
	MealIDs        []int  `json:"mealIds,omitempty"`
}

// ShareResult is the share response.
type ShareResult struct {
	Success  bool   `json:"success"`
	ShareURL string `json:"shareUrl"`
}
