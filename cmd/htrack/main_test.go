package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"htrack/internal/api"
	"htrack/internal/api/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	srv     *apitest.Server
	dir     string
	cfgPath string
}

func newEnv(t *testing.T, meals ...api.Meal) *env {
	t.Helper()
	srv := apitest.NewServer(t)
	srv.AddUser("dana", "s3cret")
	srv.SetFoods(api.Food{ID: 7, Name: "Rice"})
	srv.SetMeals(meals...)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf(`api:
  base_url: %s
storage:
  path: %s
ui:
  locale: en
  theme: light
  timezone: UTC
logging:
  level: error
  audit_file: %s
`, srv.BaseURL(), filepath.Join(dir, "session.db"), filepath.Join(dir, "audit.log"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return &env{srv: srv, dir: dir, cfgPath: cfgPath}
}

func (e *env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e *env) login(t *testing.T) {
	t.Helper()
	_, err := e.run(t, "", "login", "-u", "dana", "-p", "s3cret")
	require.NoError(t, err)
}

func sampleMeal() api.Meal {
	return api.Meal{
		ID: 3, MealType: "lunch", DateTime: time.Date(2024, 6, 9, 12, 30, 0, 0, time.UTC),
		Foods: []api.MealFood{{FoodID: 7, Name: "Rice", Amount: 200}},
	}
}

func TestLoginThenWhoami(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "", "login", "-u", "dana", "-p", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in successfully!")

	out, err = e.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as dana")
	assert.Contains(t, out, "dana@example.com")
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	e := newEnv(t)
	t.Setenv("HTRACK_PASSWORD", "")

	_, err := e.run(t, "s3cret\n", "login", "-u", "dana")
	require.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "", "login", "-u", "dana", "-p", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No active account found")
}

func TestWhoamiWithoutSession(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "", "whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)
	assert.Zero(t, e.srv.Calls("GET", "/api/user/"))
}

func TestLogoutForgetsSession(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	out, err := e.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out successfully")

	_, err = e.run(t, "", "whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestRegisterPasswordMismatchMakesNoRequest(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "", "register", "-u", "noa", "--email", "noa@example.com",
		"-p", "one", "--password2", "two")
	require.Error(t, err)
	assert.Zero(t, e.srv.Calls("POST", "/api/auth/register/"))
}

func TestLogSleep(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	out, err := e.run(t, "", "log", "sleep", "--duration", "7.5",
		"--quality", "4", "--wake-up-ease", "3", "--energy-level", "5")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	require.Len(t, e.srv.Sleeps(), 1)
	assert.InDelta(t, 7.5, e.srv.Sleeps()[0].Duration, 1e-9)
	assert.Equal(t, 4, e.srv.Sleeps()[0].Quality)
}

func TestLogHealthNamesMissingFlags(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	_, err := e.run(t, "", "log", "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--physical-feeling")
	assert.Contains(t, err.Error(), "--mental-feeling")
	assert.Empty(t, e.srv.HealthLogs())
}

func TestLogMealResolvesFoodName(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	_, err := e.run(t, "", "log", "meal", "--meal-type", "lunch", "--food", "rice", "--amount", "150")
	require.NoError(t, err)
	assert.Equal(t, 1, e.srv.Calls("POST", "/api/meals/"))
	require.Len(t, e.srv.Meals(), 1)
}

func TestLogMealUnknownFood(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	_, err := e.run(t, "", "log", "meal", "--meal-type", "lunch", "--food", "pizza", "--amount", "1")
	require.Error(t, err)
	assert.Zero(t, e.srv.Calls("POST", "/api/meals/"))
}

func TestMealsListAndFilter(t *testing.T) {
	e := newEnv(t, sampleMeal())
	e.login(t)

	out, err := e.run(t, "", "meals", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Rice")

	out, err = e.run(t, "", "meals", "list", "--type", "dinner")
	require.NoError(t, err)
	assert.NotContains(t, out, "Rice 200")

	// The filter is remembered for the next invocation.
	out, err = e.run(t, "", "meals", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Dinner")

	out, err = e.run(t, "", "meals", "list", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Rice")
}

func TestMealsDelete(t *testing.T) {
	e := newEnv(t, sampleMeal())
	e.login(t)

	_, err := e.run(t, "n\n", "meals", "delete", "3")
	require.NoError(t, err)
	assert.Len(t, e.srv.Meals(), 1)

	out, err := e.run(t, "", "meals", "delete", "3", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Meal deleted")
	assert.Empty(t, e.srv.Meals())
}

func TestMealsDeleteUnknownID(t *testing.T) {
	e := newEnv(t, sampleMeal())
	e.login(t)

	_, err := e.run(t, "", "meals", "delete", "99", "--yes")
	require.Error(t, err)
	assert.Zero(t, e.srv.Calls("DELETE", "/api/meals/99/"))
}

func TestMealsExportCSV(t *testing.T) {
	e := newEnv(t, sampleMeal())
	e.login(t)
	path := filepath.Join(e.dir, "meals.csv")

	out, err := e.run(t, "", "meals", "export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 meals")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Rice")
}

func TestMealsExportRejectsUnknownExtension(t *testing.T) {
	e := newEnv(t, sampleMeal())
	e.login(t)

	_, err := e.run(t, "", "meals", "export", filepath.Join(e.dir, "meals.txt"))
	require.Error(t, err)
}

func TestMealsShare(t *testing.T) {
	e := newEnv(t, sampleMeal())
	e.login(t)

	out, err := e.run(t, "", "meals", "share", "--email", "doctor@example.com", "--expires", "2999-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "/shared/")

	require.Len(t, e.srv.Shares(), 1)
	assert.Equal(t, []int{3}, e.srv.Shares()[0].MealIDs)
	assert.Equal(t, "2999-01-01", e.srv.Shares()[0].ExpirationDate)

	audit, err := os.ReadFile(filepath.Join(e.dir, "audit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(audit), `"event":"meals_shared"`)
	assert.Contains(t, string(audit), `"recipient":"doctor@example.com"`)
}

func TestMealsShareRejectsPastExpiration(t *testing.T) {
	e := newEnv(t, sampleMeal())
	e.login(t)

	_, err := e.run(t, "", "meals", "share", "--email", "doctor@example.com", "--expires", "2000-01-01")
	require.Error(t, err)
	assert.Empty(t, e.srv.Shares())
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "htrack", "config.yaml")

	run := func(args ...string) (string, error) {
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"--config", path}, args...))
		err := cmd.Execute()
		return out.String(), err
	}

	_, err := run("config", "init")
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = run("config", "init")
	assert.Error(t, err, "init must not overwrite")
	_, err = run("config", "init", "--force")
	assert.NoError(t, err)

	out, err := run("config", "show", "--api-url", "http://example.test/api")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: http://example.test/api")
	assert.Contains(t, out, "page_size: 10")
}

func TestDashboardAndFoods(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	out, err := e.run(t, "", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Today's meals")

	out, err = e.run(t, "", "foods")
	require.NoError(t, err)
	assert.Contains(t, out, "Rice")
}
