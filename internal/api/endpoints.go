package api

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var out TokenPair
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login/",
		body:   map[string]string{"username": username, "password": password},
		public: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, in RegisterRequest) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/register/", body: in, public: true}, nil)
}

// RefreshToken trades a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	var out struct {
		Access string `json:"access"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/token/refresh/",
		body:   map[string]string{"refresh": refresh},
		public: true,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Access == "" {
		return "", fmt.Errorf("refresh: response had no access token")
	}
	return out.Access, nil
}

// Profile returns the authenticated user.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user/"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListMeals returns all of the user's meals.
func (c *Client) ListMeals(ctx context.Context) ([]Meal, error) {
	var meals []Meal
	if err := c.do(ctx, request{method: http.MethodGet, path: "/meals/"}, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

// DailyMeals returns the meals for one date (YYYY-MM-DD).
func (c *Client) DailyMeals(ctx context.Context, date string) ([]Meal, error) {
	var meals []Meal
	if err := c.do(ctx, request{method: http.MethodGet, path: "/meals/daily/" + date + "/"}, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

// CreateMeal creates an empty meal.
func (c *Client) CreateMeal(ctx context.Context, in MealInput) (*Meal, error) {
	var m Meal
	if err := c.do(ctx, request{method: http.MethodPost, path: "/meals/", body: in}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// AddFood attaches a food item to a meal.
func (c *Client) AddFood(ctx context.Context, mealID int, in AddFoodInput) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/meals/%d/add-food/", mealID),
		body:   in,
	}, nil)
}

// UpdateMeal replaces a meal, including its food items.
func (c *Client) UpdateMeal(ctx context.Context, id int, in MealUpdate) (*Meal, error) {
	var m Meal
	if err := c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/meals/%d/", id), body: in}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMeal deletes a meal.
func (c *Client) DeleteMeal(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/meals/%d/", id)}, nil)
}

// ListFoods returns the food catalog.
func (c *Client) ListFoods(ctx context.Context) ([]Food, error) {
	var foods []Food
	if err := c.do(ctx, request{method: http.MethodGet, path: "/foods/"}, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// CreateHealthLog stores a health log entry.
func (c *Client) CreateHealthLog(ctx context.Context, in HealthLogInput) (*HealthLog, error) {
	var out HealthLog
	if err := c.do(ctx, request{method: http.MethodPost, path: "/health-logs/", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSleep stores a sleep record.
func (c *Client) CreateSleep(ctx context.Context, in SleepInput) (*Sleep, error) {
	var out Sleep
	if err := c.do(ctx, request{method: http.MethodPost, path: "/sleep/", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthTrends returns feeling, stool and weight series for the last days.
func (c *Client) HealthTrends(ctx context.Context, days int) (*HealthTrends, error) {
	var out HealthTrends
	err := c.do(ctx, request{method: http.MethodGet, path: "/analytics/health-trends/", query: daysQuery(days)}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FoodCorrelations returns per-day health metrics paired with foods.
func (c *Client) FoodCorrelations(ctx context.Context, days int) ([]FoodCorrelation, error) {
	var out []FoodCorrelation
	err := c.do(ctx, request{method: http.MethodGet, path: "/analytics/food-correlations/", query: daysQuery(days)}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SleepAnalysis returns sleep averages and trends.
func (c *Client) SleepAnalysis(ctx context.Context, days int) (*SleepAnalysis, error) {
	var out SleepAnalysis
	err := c.do(ctx, request{method: http.MethodGet, path: "/analytics/sleep-analysis/", query: daysQuery(days)}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SymptomTriggers returns foods most often eaten the day before a bad day.
func (c *Client) SymptomTriggers(ctx context.Context, days int) ([]SymptomTrigger, error) {
	var out []SymptomTrigger
	err := c.do(ctx, request{method: http.MethodGet, path: "/analytics/symptoms-triggers/", query: daysQuery(days)}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MealPatterns returns aggregate statistics over the user's meals.
func (c *Client) MealPatterns(ctx context.Context) (*MealPatterns, error) {
	var out MealPatterns
	if err := c.do(ctx, request{method: http.MethodGet, path: "/analytics/meals/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ShareMeals asks the backend to send a link to the given recipient.
func (c *Client) ShareMeals(ctx context.Context, in ShareRequest) (*ShareResult, error) {
	var out ShareResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/share/meals/", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
