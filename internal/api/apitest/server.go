// Package apitest runs an in-memory fake of the health-tracking REST API for
// tests. Routes, payloads and error bodies follow the real backend closely
// enough for the client packages to be exercised end to end.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"htrack/internal/api"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Failure is an injected response for one route.
type Failure struct {
	Status int
	Body   string
	// Times limits how many requests fail; 0 means every request.
	Times int
}

type account struct {
	user     api.User
	password string
}

// Server is the fake backend. Its URL plus "/api" is the client base URL.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	accounts      map[string]*account
	access        map[string]string // token -> username
	refresh       map[string]string
	meals         []api.Meal
	foods         []api.Food
	healthLogs    []api.HealthLogInput
	sleeps        []api.SleepInput
	trends        api.HealthTrends
	correlations  []api.FoodCorrelation
	sleepAnalysis api.SleepAnalysis
	triggers      []api.SymptomTrigger
	patterns      api.MealPatterns
	shares        []api.ShareRequest
	calls         map[string]int
	bodies        map[string][]json.RawMessage
	failures      map[string]*Failure
	delays        map[string]time.Duration
	nextID        int
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		accounts: make(map[string]*account),
		access:   make(map[string]string),
		refresh:  make(map[string]string),
		calls:    make(map[string]int),
		bodies:   make(map[string][]json.RawMessage),
		failures: make(map[string]*Failure),
		delays:   make(map[string]time.Duration),
		nextID:   100,
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to hand to api.New.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.record)
	a := r.PathPrefix("/api").Subrouter()

	a.HandleFunc("/auth/login/", s.handleLogin).Methods("POST")
	a.HandleFunc("/auth/register/", s.handleRegister).Methods("POST")
	a.HandleFunc("/auth/token/refresh/", s.handleRefresh).Methods("POST")

	p := a.NewRoute().Subrouter()
	p.Use(s.requireAuth)
	p.HandleFunc("/user/", s.handleUser).Methods("GET")
	p.HandleFunc("/meals/", s.handleListMeals).Methods("GET")
	p.HandleFunc("/meals/", s.handleCreateMeal).Methods("POST")
	p.HandleFunc("/meals/daily/{date}/", s.handleDailyMeals).Methods("GET")
	p.HandleFunc("/meals/{id:[0-9]+}/add-food/", s.handleAddFood).Methods("POST")
	p.HandleFunc("/meals/{id:[0-9]+}/", s.handleUpdateMeal).Methods("PUT")
	p.HandleFunc("/meals/{id:[0-9]+}/", s.handleDeleteMeal).Methods("DELETE")
	p.HandleFunc("/foods/", s.handleFoods).Methods("GET")
	p.HandleFunc("/health-logs/", s.handleHealthLog).Methods("POST")
	p.HandleFunc("/sleep/", s.handleSleep).Methods("POST")
	p.HandleFunc("/analytics/health-trends/", s.jsonOf(func() any { return s.trends })).Methods("GET")
	p.HandleFunc("/analytics/food-correlations/", s.jsonOf(func() any { return nonNil(s.correlations) })).Methods("GET")
	p.HandleFunc("/analytics/sleep-analysis/", s.jsonOf(func() any { return s.sleepAnalysis })).Methods("GET")
	p.HandleFunc("/analytics/symptoms-triggers/", s.jsonOf(func() any { return nonNil(s.triggers) })).Methods("GET")
	p.HandleFunc("/analytics/meals/", s.jsonOf(func() any { return s.patterns })).Methods("GET")
	p.HandleFunc("/share/meals/", s.handleShare).Methods("POST")
	return r
}

func key(method, path string) string {
	return method + " " + path
}

// record counts the call, captures the body, then applies injected delays
// and failures before routing.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		k := key(r.Method, r.URL.Path)
		var raw json.RawMessage
		if r.Body != nil && r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&raw)
			r.Body.Close()
		}

		s.mu.Lock()
		s.calls[k]++
		if raw != nil {
			s.bodies[k] = append(s.bodies[k], raw)
		}
		delay := s.delays[k]
		var fail *Failure
		if f, ok := s.failures[k]; ok {
			fail = f
			if f.Times > 0 {
				f.Times--
				if f.Times == 0 {
					delete(s.failures, k)
				}
			}
		}
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if fail != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(fail.Status)
			_, _ = w.Write([]byte(fail.Body))
			return
		}
		if raw != nil {
			r.Body = &bodyReader{strings.NewReader(string(raw))}
		}
		next.ServeHTTP(w, r)
	})
}

type bodyReader struct{ *strings.Reader }

func (bodyReader) Close() error { return nil }

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, ok := s.access[tok]
		s.mu.Unlock()
		if tok == "" || !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) jsonOf(get func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		v := get()
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, v)
	}
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// --- auth -------------------------------------------------------------------

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct{ Username, Password string }
	_ = json.NewDecoder(r.Body).Decode(&in)

	s.mu.Lock()
	acc, ok := s.accounts[in.Username]
	s.mu.Unlock()
	if !ok || acc.password != in.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "No active account found with the given credentials",
		})
		return
	}
	access, refresh := s.IssueTokens(in.Username)
	writeJSON(w, http.StatusOK, api.TokenPair{Access: access, Refresh: refresh})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in api.RegisterRequest
	_ = json.NewDecoder(r.Body).Decode(&in)

	s.mu.Lock()
	_, taken := s.accounts[in.Username]
	s.mu.Unlock()

	// Ordered keys, like the real serializer's error dict.
	var errs []string
	if in.Username == "" {
		errs = append(errs, `"username":["This field is required."]`)
	} else if taken {
		errs = append(errs, `"username":["A user with that username already exists."]`)
	}
	if in.Password != in.Password2 {
		errs = append(errs, `"password":["Password fields didn't match."]`)
	}
	if len(errs) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("{" + strings.Join(errs, ",") + "}"))
		return
	}
	u := s.addAccount(in.Username, in.Password, in.Email)
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in struct{ Refresh string }
	_ = json.NewDecoder(r.Body).Decode(&in)

	s.mu.Lock()
	username, ok := s.refresh[in.Refresh]
	var access string
	if ok {
		access = "access-" + uuid.NewString()
		s.access[access] = username
	}
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Token is invalid or expired",
			"code":   "token_not_valid",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	acc := s.accounts[s.access[tok]]
	s.mu.Unlock()
	if acc == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

// --- meals ------------------------------------------------------------------

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	meals := append([]api.Meal{}, s.meals...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) handleDailyMeals(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid date format. Use YYYY-MM-DD"})
		return
	}
	s.mu.Lock()
	out := []api.Meal{}
	for _, m := range s.meals {
		if m.DateTime.UTC().Format("2006-01-02") == date {
			out = append(out, m)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	var in api.MealInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	dt, err := time.Parse(time.RFC3339, in.DateTime)
	if err != nil || !contains(api.MealTypes, in.MealType) {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"date_time": {"Invalid meal."}})
		return
	}
	s.mu.Lock()
	s.nextID++
	m := api.Meal{ID: s.nextID, DateTime: dt, MealType: in.MealType, Notes: in.Notes, Foods: []api.MealFood{}}
	s.meals = append(s.meals, m)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) mealIndex(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	for i, m := range s.meals {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) handleAddFood(w http.ResponseWriter, r *http.Request) {
	var in api.AddFoodInput
	_ = json.NewDecoder(r.Body).Decode(&in)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.mealIndex(r)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	name := ""
	for _, f := range s.foods {
		if f.ID == in.FoodID {
			name = f.Name
		}
	}
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"food_id": {"Invalid pk."}})
		return
	}
	s.nextID++
	mf := api.MealFood{ID: s.nextID, FoodID: in.FoodID, Name: name, Amount: api.Decimal(in.Amount), Notes: in.Notes}
	s.meals[i].Foods = append(s.meals[i].Foods, mf)
	writeJSON(w, http.StatusCreated, mf)
}

func (s *Server) handleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	var in api.MealUpdate
	_ = json.NewDecoder(r.Body).Decode(&in)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.mealIndex(r)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	m := s.meals[i]
	if dt, err := time.Parse(time.RFC3339, in.DateTime); err == nil {
		m.DateTime = dt
	}
	if in.MealType != "" {
		m.MealType = in.MealType
	}
	m.Notes = in.Notes
	m.Foods = m.Foods[:0:0]
	for _, f := range in.Foods {
		s.nextID++
		m.Foods = append(m.Foods, api.MealFood{ID: s.nextID, FoodID: f.FoodID, Name: f.Name, Amount: api.Decimal(f.Amount), Notes: f.Notes})
	}
	s.meals[i] = m
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.mealIndex(r)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	s.meals = append(s.meals[:i], s.meals[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFoods(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	foods := append([]api.Food{}, s.foods...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, foods)
}

// --- logs -------------------------------------------------------------------

func (s *Server) handleHealthLog(w http.ResponseWriter, r *http.Request) {
	var in api.HealthLogInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Date == "" || in.PhysicalFeeling < 1 || in.PhysicalFeeling > 5 {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"physical_feeling": {"Ensure this value is between 1 and 5."}})
		return
	}
	s.mu.Lock()
	s.healthLogs = append(s.healthLogs, in)
	s.nextID++
	id := s.nextID
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "date": in.Date})
}

func (s *Server) handleSleep(w http.ResponseWriter, r *http.Request) {
	var in api.SleepInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mu.Lock()
	s.sleeps = append(s.sleeps, in)
	s.nextID++
	id := s.nextID
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "date": in.Date, "duration": in.Duration})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var in api.ShareRequest
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mu.Lock()
	s.shares = append(s.shares, in)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, api.ShareResult{Success: true, ShareURL: s.URL + "/shared/" + uuid.NewString()})
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// --- test controls ----------------------------------------------------------

// AddUser registers an account and returns its profile.
func (s *Server) AddUser(username, password string) api.User {
	return s.addAccount(username, password, username+"@example.com")
}

func (s *Server) addAccount(username, password, email string) api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	acc := &account{
		user:     api.User{ID: s.nextID, Username: username, Email: email},
		password: password,
	}
	s.accounts[username] = acc
	return acc.user
}

// IssueTokens mints a token pair for username.
func (s *Server) IssueTokens(username string) (access, refresh string) {
	access = "access-" + uuid.NewString()
	refresh = "refresh-" + uuid.NewString()
	s.mu.Lock()
	s.access[access] = username
	s.refresh[refresh] = username
	s.mu.Unlock()
	return access, refresh
}

// ExpireAccess invalidates an access token so protected routes answer 401.
func (s *Server) ExpireAccess(token string) {
	s.mu.Lock()
	delete(s.access, token)
	s.mu.Unlock()
}

// RevokeRefresh invalidates a refresh token.
func (s *Server) RevokeRefresh(token string) {
	s.mu.Lock()
	delete(s.refresh, token)
	s.mu.Unlock()
}

// SetMeals replaces the stored meals.
func (s *Server) SetMeals(meals ...api.Meal) {
	s.mu.Lock()
	s.meals = append([]api.Meal{}, meals...)
	s.mu.Unlock()
}

// Meals returns a copy of the stored meals sorted by id.
func (s *Server) Meals() []api.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]api.Meal{}, s.meals...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetFoods replaces the food catalog.
func (s *Server) SetFoods(foods ...api.Food) {
	s.mu.Lock()
	s.foods = append([]api.Food{}, foods...)
	s.mu.Unlock()
}

// SetTrends sets the health-trends response.
func (s *Server) SetTrends(t api.HealthTrends) {
	s.mu.Lock()
	s.trends = t
	s.mu.Unlock()
}

// SetCorrelations sets the food-correlations response.
func (s *Server) SetCorrelations(c ...api.FoodCorrelation) {
	s.mu.Lock()
	s.correlations = append([]api.FoodCorrelation{}, c...)
	s.mu.Unlock()
}

// SetSleepAnalysis sets the sleep-analysis response.
func (s *Server) SetSleepAnalysis(a api.SleepAnalysis) {
	s.mu.Lock()
	s.sleepAnalysis = a
	s.mu.Unlock()
}

// SetTriggers sets the symptoms-triggers response.
func (s *Server) SetTriggers(t ...api.SymptomTrigger) {
	s.mu.Lock()
	s.triggers = append([]api.SymptomTrigger{}, t...)
	s.mu.Unlock()
}

// SetPatterns sets the meal analysis response.
func (s *Server) SetPatterns(p api.MealPatterns) {
	s.mu.Lock()
	s.patterns = p
	s.mu.Unlock()
}

// HealthLogs returns the health logs received.
func (s *Server) HealthLogs() []api.HealthLogInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.HealthLogInput{}, s.healthLogs...)
}

// Sleeps returns the sleep records received.
func (s *Server) Sleeps() []api.SleepInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.SleepInput{}, s.sleeps...)
}

// Shares returns the share requests received.
func (s *Server) Shares() []api.ShareRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.ShareRequest{}, s.shares...)
}

// Fail makes method+path (e.g. "GET", "/api/meals/") answer with f.
func (s *Server) Fail(method, path string, f Failure) {
	s.mu.Lock()
	cp := f
	s.failures[key(method, path)] = &cp
	s.mu.Unlock()
}

// Delay holds responses on method+path for d.
func (s *Server) Delay(method, path string, d time.Duration) {
	s.mu.Lock()
	s.delays[key(method, path)] = d
	s.mu.Unlock()
}

// Calls returns how many requests hit method+path.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key(method, path)]
}

// TotalCalls returns the number of requests received on any route.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// LastBody decodes the most recent JSON body sent to method+path into v.
func (s *Server) LastBody(method, path string, v any) error {
	s.mu.Lock()
	bodies := s.bodies[key(method, path)]
	s.mu.Unlock()
	if len(bodies) == 0 {
		return fmt.Errorf("no body recorded for %s %s", method, path)
	}
	return json.Unmarshal(bodies[len(bodies)-1], v)
}
