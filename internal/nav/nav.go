// Package nav tracks which page is showing, runs each page's init hook on
// entry, guards pages that need a session, and queues alerts.
package nav

import (
	"sync"

	"htrack/internal/i18n"
)

// Page identifies one screen.
type Page string

const (
	Login         Page = "login"
	Register      Page = "register"
	Dashboard     Page = "dashboard"
	MealForm      Page = "meal-form"
	HealthLogForm Page = "health-log-form"
	SleepForm     Page = "sleep-form"
	MealHistory   Page = "meal-history"
	Insights      Page = "insights"
)

// Pages lists every page in menu order.
var Pages = []Page{Dashboard, MealForm, HealthLogForm, SleepForm, MealHistory, Insights, Login, Register}

// RequiresAuth reports whether p is only reachable when signed in.
func (p Page) RequiresAuth() bool {
	return p != Login && p != Register
}

// Title returns the localized page title.
func (p Page) Title(msgs *i18n.Printer) string {
	switch p {
	case Login:
		return msgs.T(i18n.MsgPageLogin)
	case Register:
		return msgs.T(i18n.MsgPageRegister)
	case Dashboard:
		return msgs.T(i18n.MsgPageDashboard)
	case MealForm:
		return msgs.T(i18n.MsgPageMealForm)
	case HealthLogForm:
		return msgs.T(i18n.MsgPageHealthLog)
	case SleepForm:
		return msgs.T(i18n.MsgPageSleep)
	case MealHistory:
		return msgs.T(i18n.MsgPageHistory)
	case Insights:
		return msgs.T(i18n.MsgPageInsights)
	}
	return string(p)
}

// Controller shows one page at a time. T is whatever the page hooks
// produce (the terminal UI uses tea.Cmd).
type Controller[T any] struct {
	mu            sync.Mutex
	current       Page
	hooks         map[Page]func() T
	authenticated func() bool
	history       []Page
}

// NewController starts on start. authenticated gates RequiresAuth pages.
func NewController[T any](start Page, authenticated func() bool) *Controller[T] {
	return &Controller[T]{
		current:       start,
		hooks:         make(map[Page]func() T),
		authenticated: authenticated,
	}
}

// OnEnter sets the init hook for p, replacing any previous one.
func (c *Controller[T]) OnEnter(p Page, hook func() T) {
	c.mu.Lock()
	c.hooks[p] = hook
	c.mu.Unlock()
}

// Current returns the visible page.
func (c *Controller[T]) Current() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Navigate shows p and runs its hook. Auth-only pages redirect to Login
// when there is no session. Returns the page actually shown.
func (c *Controller[T]) Navigate(p Page) (Page, T) {
	c.mu.Lock()
	if p.RequiresAuth() && c.authenticated != nil && !c.authenticated() {
		p = Login
	}
	if c.current != p {
		c.history = append(c.history, c.current)
	}
	c.current = p
	hook := c.hooks[p]
	c.mu.Unlock()

	var zero T
	if hook == nil {
		return p, zero
	}
	return p, hook()
}

// Back returns to the previous page, if any.
func (c *Controller[T]) Back() (Page, T) {
	c.mu.Lock()
	if len(c.history) == 0 {
		cur := c.current
		c.mu.Unlock()
		var zero T
		return cur, zero
	}
	prev := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	c.mu.Unlock()

	p, out := c.Navigate(prev)
	// Navigate pushed the page we just left; drop it.
	c.mu.Lock()
	if n := len(c.history); n > 0 {
		c.history = c.history[:n-1]
	}
	c.mu.Unlock()
	return p, out
}
