package ui

import (
	"htrack/internal/dashboard"
	"htrack/internal/i18n"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// dashboardPage shows the three dashboard panels. Each panel is fetched by
// its own command and rendered as soon as it settles.
type dashboardPage struct {
	sh       *shared
	loader   *dashboard.Loader
	spinner  spinner.Model
	viewport viewport.Model
	data     dashboard.Dashboard
	gen      int
	pending  int
}

func newDashboardPage(sh *shared, loader *dashboard.Loader) *dashboardPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = sh.styles.Spinner
	return &dashboardPage{
		sh:       sh,
		loader:   loader,
		spinner:  sp,
		viewport: viewport.New(sh.layout.ContentWidth(), sh.layout.ContentHeight()),
	}
}

func (p *dashboardPage) Capturing() bool { return false }

// Loading reports whether any panel of the current load is outstanding.
func (p *dashboardPage) Loading() bool { return p.pending > 0 }

// Enter reloads every panel.
func (p *dashboardPage) Enter() tea.Cmd {
	p.gen++
	p.pending = 3
	msgs := p.sh.msgs
	p.data = dashboard.Dashboard{
		Meals:        dashboard.MealsPanel{Title: msgs.T(i18n.MsgTodaysMeals)},
		Trends:       dashboard.TrendsPanel{Title: msgs.T(i18n.MsgHealthTrends)},
		Correlations: dashboard.CorrelationsPanel{Title: msgs.T(i18n.MsgFoodInsights)},
	}
	p.refresh()

	gen, l, ctx := p.gen, p.loader, p.sh.ctx
	return tea.Batch(
		p.spinner.Tick,
		func() tea.Msg {
			return panelMsg{gen: gen, kind: dashboard.PanelMeals, meals: l.LoadMeals(ctx)}
		},
		func() tea.Msg {
			return panelMsg{gen: gen, kind: dashboard.PanelTrends, trends: l.LoadTrends(ctx)}
		},
		func() tea.Msg {
			return panelMsg{gen: gen, kind: dashboard.PanelCorrelations, correlations: l.LoadCorrelations(ctx)}
		},
	)
}

func (p *dashboardPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case panelMsg:
		if msg.gen != p.gen {
			return nil
		}
		switch msg.kind {
		case dashboard.PanelMeals:
			p.data.Meals = msg.meals
		case dashboard.PanelTrends:
			p.data.Trends = msg.trends
		case dashboard.PanelCorrelations:
			p.data.Correlations = msg.correlations
		}
		p.pending--
		p.refresh()
		return nil

	case spinner.TickMsg:
		if !p.Loading() {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case tea.WindowSizeMsg:
		p.viewport.Width = p.sh.layout.ContentWidth()
		p.viewport.Height = p.sh.layout.ContentHeight()
		p.refresh()
		return nil
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

func (p *dashboardPage) refresh() {
	p.viewport.SetContent(p.sh.renderer().Dashboard(&p.data))
}

func (p *dashboardPage) View() string {
	head := p.sh.styles.Title.Render(p.sh.msgs.T(i18n.MsgPageDashboard))
	if p.Loading() {
		head += " " + p.spinner.View()
	}
	return head + "\n" + p.viewport.View()
}
