package ui

import (
	"htrack/internal/nav"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap holds the global bindings. Page-local keys are listed in the help
// page.
type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Back      key.Binding
	Dashboard key.Binding
	Meal      key.Binding
	Health    key.Binding
	Sleep     key.Binding
	History   key.Binding
	Insights  key.Binding
	Reload    key.Binding
	Logout    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Dashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Meal:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "meal")),
		Health:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "health")),
		Sleep:     key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "sleep")),
		History:   key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "history")),
		Insights:  key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "insights")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Logout:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dashboard, k.Meal, k.Health, k.Sleep, k.History, k.Insights, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Dashboard, k.Meal, k.Health, k.Sleep, k.History, k.Insights},
		{k.Reload, k.Back, k.Logout, k.Help, k.Quit},
	}
}

// pageFor maps a navigation key to its page.
func (k keyMap) pageFor(msg tea.KeyMsg) (nav.Page, bool) {
	switch {
	case key.Matches(msg, k.Dashboard):
		return nav.Dashboard, true
	case key.Matches(msg, k.Meal):
		return nav.MealForm, true
	case key.Matches(msg, k.Health):
		return nav.HealthLogForm, true
	case key.Matches(msg, k.Sleep):
		return nav.SleepForm, true
	case key.Matches(msg, k.History):
		return nav.MealHistory, true
	case key.Matches(msg, k.Insights):
		return nav.Insights, true
	}
	return "", false
}
