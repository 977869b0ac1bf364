package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"htrack/internal/api"
	"htrack/internal/api/apitest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func newClient(t *testing.T, srv *apitest.Server, token string) *api.Client {
	t.Helper()
	c, err := api.New(srv.BaseURL(), api.WithTokenSource(staticToken(token)), api.WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := api.New("not a url")
	assert.Error(t, err)
	_, err = api.New("/api")
	assert.Error(t, err)
}

func TestClient_LoginAndProfile(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddUser("dana", "s3cret")

	anon := newClient(t, srv, "")
	pair, err := anon.Login(context.Background(), "dana", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	authed := newClient(t, srv, pair.Access)
	u, err := authed.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dana", u.Username)
}

func TestClient_LoginFailureCarriesDetail(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newClient(t, srv, "")

	_, err := c.Login(context.Background(), "nobody", "x")
	var he *api.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.Equal(t, "No active account found with the given credentials", he.Detail)
	assert.True(t, api.IsUnauthorized(err))
}

func TestClient_ProtectedWithoutTokenIs401(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newClient(t, srv, "")
	_, err := c.ListMeals(context.Background())
	assert.True(t, api.IsUnauthorized(err))
}

func TestClient_RefreshToken(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddUser("dana", "pw")
	_, refresh := srv.IssueTokens("dana")
	c := newClient(t, srv, "")

	access, err := c.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	var body map[string]string
	require.NoError(t, srv.LastBody("POST", "/api/auth/token/refresh/", &body))
	assert.Equal(t, map[string]string{"refresh": refresh}, body)

	srv.RevokeRefresh(refresh)
	_, err = c.RefreshToken(context.Background(), refresh)
	assert.True(t, api.IsUnauthorized(err))
}

func TestClient_MealLifecycle(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddUser("dana", "pw")
	access, _ := srv.IssueTokens("dana")
	srv.SetFoods(api.Food{ID: 1, Name: "Oatmeal", Calories: 150})
	c := newClient(t, srv, access)
	ctx := context.Background()

	m, err := c.CreateMeal(ctx, api.MealInput{DateTime: "2024-06-01T08:30:00Z", MealType: api.MealBreakfast, Notes: "early"})
	require.NoError(t, err)
	require.NoError(t, c.AddFood(ctx, m.ID, api.AddFoodInput{FoodID: 1, Amount: 200, Notes: "with honey"}))

	daily, err := c.DailyMeals(ctx, "2024-06-01")
	require.NoError(t, err)
	require.Len(t, daily, 1)
	want := []api.MealFood{{ID: daily[0].Foods[0].ID, FoodID: 1, Name: "Oatmeal", Amount: 200, Notes: "with honey"}}
	if diff := cmp.Diff(want, daily[0].Foods); diff != "" {
		t.Errorf("foods mismatch (-want +got):\n%s", diff)
	}

	updated, err := c.UpdateMeal(ctx, m.ID, api.MealUpdate{
		DateTime: "2024-06-01T09:00:00Z",
		MealType: api.MealBreakfast,
		Foods:    []api.MealFoodInput{{FoodID: 1, Name: "Oatmeal", Amount: 150}},
	})
	require.NoError(t, err)
	assert.Equal(t, api.Decimal(150), updated.Foods[0].Amount)

	require.NoError(t, c.DeleteMeal(ctx, m.ID))
	all, err := c.ListMeals(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 1, srv.Calls("DELETE", "/api/meals/"+itoa(m.ID)+"/"))
}

func TestClient_AnalyticsQueryDays(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"physical_feeling":[{"date":"2024-06-01","value":4}],"mental_feeling":[],"stool_quality":[],"weight":[{"date":"2024-06-01","value":"71.50"}]}`))
	}))
	defer ts.Close()

	c, err := api.New(ts.URL + "/api")
	require.NoError(t, err)
	tr, err := c.HealthTrends(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "days=7", gotQuery)
	assert.Equal(t, api.Decimal(4), tr.PhysicalFeeling[0].Value)
	assert.Equal(t, api.Decimal(71.5), tr.Weight[0].Value)
}

func TestClient_SendsHeaders(t *testing.T) {
	var hdr http.Header
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr = r.Header.Clone()
		path = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c, err := api.New(ts.URL+"/api/", api.WithTokenSource(staticToken("tok")), api.WithUserAgent("htrack-test"))
	require.NoError(t, err)
	_, err = c.ListFoods(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/foods/", path)
	assert.Equal(t, "Bearer tok", hdr.Get("Authorization"))
	assert.Equal(t, "htrack-test", hdr.Get("User-Agent"))
	assert.Len(t, hdr.Get("X-Request-ID"), 36)
}

func TestClient_PublicEndpointsOmitBearer(t *testing.T) {
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"access":"a","refresh":"r"}`))
	}))
	defer ts.Close()

	c, err := api.New(ts.URL, api.WithTokenSource(staticToken("stale")))
	require.NoError(t, err)
	_, err = c.Login(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestClient_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := api.New(url)
	require.NoError(t, err)
	_, err = c.ListMeals(context.Background())
	var ne *api.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.True(t, api.IsNetwork(err))
	assert.False(t, api.IsUnauthorized(err))
	assert.Equal(t, "/meals/", ne.Path)
}

func TestClient_RateLimitHonorsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c, err := api.New(ts.URL, api.WithRateLimit(0.001, 1))
	require.NoError(t, err)
	_, err = c.ListFoods(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.ListFoods(ctx)
	require.Error(t, err)
	assert.True(t, api.IsNetwork(err))
}

func TestHTTPError_Flatten(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"username":["A user with that username already exists."],"password":["Too short.","Too common."],"email":"Enter a valid email address."}`))
	}))
	defer ts.Close()

	c, err := api.New(ts.URL)
	require.NoError(t, err)
	err = c.Register(context.Background(), api.RegisterRequest{Username: "dana"})

	var he *api.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t,
		"A user with that username already exists. Too short. Too common. Enter a valid email address.",
		he.Flatten())
	assert.Equal(t, []string{"username", "password", "email"}, fieldNames(he.Fields))
}

func TestHTTPError_NonJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer ts.Close()

	c, err := api.New(ts.URL)
	require.NoError(t, err)
	_, err = c.Profile(context.Background())

	var he *api.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadGateway, he.Status)
	assert.Empty(t, he.Flatten())
	assert.Contains(t, he.Error(), "Bad Gateway")
}

func TestMeal_DecodesAlternateFoodShapes(t *testing.T) {
	payloads := []string{
		`{"id":1,"date_time":"2024-06-01T08:00:00Z","meal_type":"breakfast","foods":[{"id":9,"name":"Eggs","amount":2}]}`,
		`{"id":1,"date_time":"2024-06-01T08:00:00Z","meal_type":"breakfast","meal_foods":[{"id":9,"food":{"id":3,"name":"Eggs"},"amount":"2.00"}]}`,
		`{"id":1,"date_time":"2024-06-01T08:00:00Z","meal_type":"breakfast","mealfood_set":[{"id":9,"food":3,"food_name":"Eggs","amount":"2.00"}]}`,
	}
	for _, p := range payloads {
		var m api.Meal
		require.NoError(t, json.Unmarshal([]byte(p), &m), p)
		require.Len(t, m.Foods, 1, p)
		assert.Equal(t, "Eggs", m.Foods[0].Name, p)
		assert.Equal(t, "2", m.Foods[0].Amount.String(), p)
	}
}

func TestFoodAmount_NumberOrString(t *testing.T) {
	var c api.FoodCorrelation
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-06-02","foods_eaten_previous_day":[{"name":"Bread","amount":"100.00"},{"name":"Milk","amount":250}]}`), &c))
	assert.Equal(t, []api.FoodAmount{{Name: "Bread", Amount: "100"}, {Name: "Milk", Amount: "250"}}, c.FoodsEatenPreviousDay)
}

func fieldNames(fs []api.FieldError) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Field
	}
	return out
}

func itoa(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}
