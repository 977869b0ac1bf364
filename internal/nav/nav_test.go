package nav

import (
	"testing"
	"time"

	"htrack/internal/i18n"

	"github.com/stretchr/testify/assert"
)

func TestNavigate_RunsHookOnEveryEntry(t *testing.T) {
	c := NewController[int](Login, func() bool { return true })
	loads := 0
	c.OnEnter(Dashboard, func() int { loads++; return loads })

	p, n := c.Navigate(Dashboard)
	assert.Equal(t, Dashboard, p)
	assert.Equal(t, 1, n)

	c.Navigate(MealForm)
	_, n = c.Navigate(Dashboard)
	assert.Equal(t, 2, n, "returning to the dashboard reloads it")
	assert.Equal(t, Dashboard, c.Current())
}

func TestNavigate_GuardRedirectsToLogin(t *testing.T) {
	authed := false
	c := NewController[string](Login, func() bool { return authed })
	c.OnEnter(Login, func() string { return "login-init" })

	p, out := c.Navigate(MealHistory)
	assert.Equal(t, Login, p)
	assert.Equal(t, "login-init", out)

	p, _ = c.Navigate(Register)
	assert.Equal(t, Register, p)

	authed = true
	p, _ = c.Navigate(MealHistory)
	assert.Equal(t, MealHistory, p)
}

func TestNavigate_NoHookReturnsZero(t *testing.T) {
	c := NewController[func()](Dashboard, nil)
	p, fn := c.Navigate(SleepForm)
	assert.Equal(t, SleepForm, p)
	assert.Nil(t, fn)
}

func TestBack(t *testing.T) {
	c := NewController[int](Dashboard, nil)
	c.Navigate(MealHistory)
	c.Navigate(MealForm)

	p, _ := c.Back()
	assert.Equal(t, MealHistory, p)
	p, _ = c.Back()
	assert.Equal(t, Dashboard, p)
	p, _ = c.Back()
	assert.Equal(t, Dashboard, p)
}

func TestPage_TitleAndAuth(t *testing.T) {
	he := i18n.NewPrinter(i18n.Hebrew)
	assert.Equal(t, "היסטוריית ארוחות", MealHistory.Title(he))
	assert.False(t, Login.RequiresAuth())
	assert.True(t, Insights.RequiresAuth())
}

func TestAlerts_Expire(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := NewAlerts(5 * time.Second)
	a.now = func() time.Time { return now }

	a.Push(Success("saved"))
	a.Push(Failure(""))
	now = now.Add(3 * time.Second)
	a.Push(Failure("boom"))

	assert.Len(t, a.Active(), 2)

	now = now.Add(3 * time.Second)
	active := a.Active()
	if assert.Len(t, active, 1) {
		assert.Equal(t, "boom", active[0].Text)
		assert.Equal(t, AlertError, active[0].Kind)
	}

	a.Clear()
	assert.Empty(t, a.Active())
}
