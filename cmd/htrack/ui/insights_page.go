package ui

import (
	"htrack/internal/dashboard"
	"htrack/internal/i18n"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// insightsPage shows sleep analysis and symptom triggers.
type insightsPage struct {
	sh       *shared
	loader   *dashboard.Loader
	spinner  spinner.Model
	viewport viewport.Model
	data     *dashboard.Insights
	gen      int
}

func newInsightsPage(sh *shared, loader *dashboard.Loader) *insightsPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = sh.styles.Spinner
	return &insightsPage{
		sh:       sh,
		loader:   loader,
		spinner:  sp,
		viewport: viewport.New(sh.layout.ContentWidth(), sh.layout.ContentHeight()),
	}
}

func (p *insightsPage) Capturing() bool { return false }

func (p *insightsPage) Enter() tea.Cmd {
	p.gen++
	p.data = nil
	p.viewport.SetContent("")
	gen, l, ctx := p.gen, p.loader, p.sh.ctx
	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		return insightsMsg{gen: gen, in: l.LoadInsights(ctx)}
	})
}

func (p *insightsPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case insightsMsg:
		if msg.gen != p.gen {
			return nil
		}
		p.data = msg.in
		p.refresh()
		return nil

	case spinner.TickMsg:
		if p.data != nil {
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

func (p *insightsPage) refresh() {
	if p.data != nil {
		p.viewport.SetContent(p.sh.renderer().Insights(p.data))
	}
}

func (p *insightsPage) View() string {
	head := p.sh.styles.Title.Render(p.sh.msgs.T(i18n.MsgPageInsights))
	if p.data == nil {
		return head + " " + p.spinner.View() + "\n" + p.sh.styles.Muted.Render(p.sh.msgs.T(i18n.MsgLoading))
	}
	return head + "\n" + p.viewport.View()
}
