package ui

import (
	"htrack/internal/api"
	"htrack/internal/auth"
	"htrack/internal/config"
	"htrack/internal/dashboard"
	"htrack/internal/forms"
	"htrack/internal/nav"

	tea "github.com/charmbracelet/bubbletea"
)

// alertMsg asks the app to show an alert.
type alertMsg struct{ alert nav.Alert }

// alertExpiredMsg re-renders once the oldest alert may have expired.
type alertExpiredMsg struct{}

// navigateMsg asks the app to show a page.
type navigateMsg struct{ page nav.Page }

type authCheckedMsg struct {
	state auth.State
	err   error
}

type loggedInMsg struct {
	user *api.User
	err  error
}

type registeredMsg struct{ err error }

type loggedOutMsg struct{ err error }

// panelMsg carries one settled dashboard panel. gen identifies the load
// it belongs to; results of a superseded load are dropped.
type panelMsg struct {
	gen          int
	kind         dashboard.PanelKind
	meals        dashboard.MealsPanel
	trends       dashboard.TrendsPanel
	correlations dashboard.CorrelationsPanel
}

type insightsMsg struct {
	gen int
	in  *dashboard.Insights
}

type formReadyMsg struct {
	page   nav.Page
	values forms.Values
}

type formDoneMsg struct {
	page    nav.Page
	outcome forms.Outcome
	err     error
}

type historyLoadedMsg struct{ err error }

// historyDoneMsg reports a finished history action.
type historyDoneMsg struct {
	alert nav.Alert
	err   error
	link  string
}

type patternsMsg struct {
	patterns *api.MealPatterns
	err      error
}

type configChangedMsg struct{ cfg *config.Config }

func alertCmd(a nav.Alert) tea.Cmd {
	return func() tea.Msg { return alertMsg{alert: a} }
}

func navigateCmd(p nav.Page) tea.Cmd {
	return func() tea.Msg { return navigateMsg{page: p} }
}
