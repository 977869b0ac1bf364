package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# htrack

Log meals, health and sleep, and see how food relates to how you feel.

## Pages

| Key | Page |
|-----|------|
| 1 | Dashboard |
| 2 | Add meal |
| 3 | Health log |
| 4 | Sleep |
| 5 | Meal history |
| 6 | Insights |

## Everywhere

- **r** reload the page
- **esc** go back
- **ctrl+l** log out
- **?** toggle this help
- **q** quit

## Forms

- **tab / shift+tab** move between fields
- **← / →** change a choice
- **enter** on the last field or **ctrl+s** saves

## Meal history

- **b l d s** toggle breakfast, lunch, dinner, snack
- **B L D S** show only that meal type
- **/** search by food, **f** filter by date, **c** clear filters
- **← / →** change page, **↑ / ↓** select a meal, **v** list or grid
- **a** add, **e** edit, **x** delete the selected meal
- **m** share by email, **o** export to CSV or PDF, **A** analyze
- **y** copy the last share link
`

// helpPage renders the key reference as markdown.
type helpPage struct {
	sh       *shared
	viewport viewport.Model
}

func newHelpPage(sh *shared) *helpPage {
	p := &helpPage{sh: sh, viewport: viewport.New(sh.layout.ContentWidth(), sh.layout.ContentHeight())}
	p.render()
	return p
}

func (p *helpPage) render() {
	style := "light"
	if p.sh.styles.Theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(p.sh.layout.ContentWidth()),
	)
	if err != nil {
		p.viewport.SetContent(helpMarkdown)
		return
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		out = helpMarkdown
	}
	p.viewport.SetContent(out)
}

func (p *helpPage) Enter() tea.Cmd {
	p.render()
	p.viewport.GotoTop()
	return nil
}

func (p *helpPage) Capturing() bool { return false }

func (p *helpPage) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.WindowSizeMsg); ok {
		p.viewport.Width = p.sh.layout.ContentWidth()
		p.viewport.Height = p.sh.layout.ContentHeight()
		p.render()
		return nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

func (p *helpPage) View() string {
	return p.viewport.View()
}
