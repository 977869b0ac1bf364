package ui

import (
	"context"
	"strings"

	"htrack/internal/api"
	"htrack/internal/forms"
	"htrack/internal/history"
	"htrack/internal/i18n"
	"htrack/internal/nav"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

type historyMode int

const (
	modeBrowse historyMode = iota
	modeConfirm
	modeSearch
	modeDates
	modeShare
	modeExport
	modeEdit
	modeCreate
	modePatterns
)

var typeKeys = map[string]string{"b": "breakfast", "l": "lunch", "d": "dinner", "s": "snack"}

// historyPage lists past meals with filters, paging, edit, delete, export
// and share.
type historyPage struct {
	sh       *shared
	hist     *history.History
	create   *formPage
	mode     historyMode
	dialog   *dialog
	draft    *history.Draft
	search   textinput.Model
	debounce *Debouncer
	selected int
	restored bool
	busy     bool
	link     string
	patterns *api.MealPatterns
}

func newHistoryPage(sh *shared, hist *history.History, meal *forms.MealForm) *historyPage {
	search := textinput.New()
	search.Prompt = "/ "
	search.Width = 30

	create := newFormPage(sh, meal)
	create.owner = nav.MealHistory
	create.submit = func(ctx context.Context, v forms.Values) (forms.Outcome, error) {
		return hist.Create(ctx, meal, v)
	}

	return &historyPage{
		sh:       sh,
		hist:     hist,
		create:   create,
		search:   search,
		debounce: NewDebouncer("history-search", DefaultFilterDelay),
	}
}

func (p *historyPage) Capturing() bool {
	return p.mode != modeBrowse && p.mode != modePatterns
}

// HandleEsc leaves the current sub-mode. It reports false in browse mode
// so the app can navigate back instead.
func (p *historyPage) HandleEsc() bool {
	switch p.mode {
	case modeBrowse:
		return false
	case modeConfirm:
		p.hist.CancelDelete()
	case modeSearch:
		p.search.Blur()
	}
	p.mode = modeBrowse
	p.dialog = nil
	p.draft = nil
	return true
}

// Enter restores the saved filter on first visit and reloads the list.
func (p *historyPage) Enter() tea.Cmd {
	ctx := p.sh.ctx
	if !p.restored {
		f := p.hist.Restore(ctx)
		p.search.SetValue(f.Food)
		p.restored = true
	}
	p.mode = modeBrowse
	p.selected = 0
	hist := p.hist
	return func() tea.Msg {
		return historyLoadedMsg{err: hist.Load(ctx)}
	}
}

func (p *historyPage) selectedID() int {
	v := p.hist.Snapshot()
	if p.selected < 0 || p.selected >= len(v.Cards) {
		return 0
	}
	return v.Cards[p.selected].ID
}

func (p *historyPage) clampSelection() {
	n := len(p.hist.Snapshot().Cards)
	if p.selected >= n {
		p.selected = n - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

func (p *historyPage) Update(msg tea.Msg) tea.Cmd {
	ctx := p.sh.ctx
	switch msg := msg.(type) {
	case historyLoadedMsg:
		p.clampSelection()
		return nil

	case historyDoneMsg:
		p.busy = false
		if forms.IsValidation(msg.err) {
			return alertCmd(msg.alert)
		}
		p.mode = modeBrowse
		p.dialog = nil
		p.draft = nil
		p.clampSelection()
		cmds := []tea.Cmd{alertCmd(msg.alert)}
		if msg.link != "" {
			p.link = msg.link
			cmds = append(cmds, p.copyLink())
		}
		return tea.Batch(cmds...)

	case patternsMsg:
		p.busy = false
		if msg.err != nil {
			return alertCmd(nav.Failure(p.sh.msgs.T(i18n.MsgAnalyzeFailed)))
		}
		p.patterns = msg.patterns
		p.mode = modePatterns
		return nil

	case formReadyMsg:
		return p.create.Update(msg)

	case formDoneMsg:
		cmd := p.create.Update(msg)
		if msg.err == nil {
			p.mode = modeBrowse
		}
		return cmd

	case DebounceMsg:
		if p.debounce.Ready(msg) {
			f := p.hist.Filter()
			f.Food = strings.TrimSpace(p.search.Value())
			p.hist.SetFilter(ctx, f)
			p.selected = 0
		}
		return nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	if p.mode == modeCreate {
		return p.create.Update(msg)
	}
	return nil
}

func (p *historyPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch p.mode {
	case modeConfirm:
		switch msg.String() {
		case "y", "Y":
			p.mode = modeBrowse
			p.busy = true
			hist, ctx := p.hist, p.sh.ctx
			return func() tea.Msg {
				alert, err := hist.ConfirmDelete(ctx)
				return historyDoneMsg{alert: alert, err: err}
			}
		case "n", "N":
			p.hist.CancelDelete()
			p.mode = modeBrowse
		}
		return nil

	case modeSearch:
		if msg.String() == "enter" {
			p.search.Blur()
			p.mode = modeBrowse
			return nil
		}
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		return tea.Batch(cmd, p.debounce.Trigger())

	case modeCreate:
		return p.create.Update(msg)

	case modePatterns:
		return nil

	case modeDates, modeShare, modeExport, modeEdit:
		submit, cmd := p.dialog.Update(msg)
		if submit {
			return p.submitDialog()
		}
		return cmd
	}
	return p.browseKey(msg)
}

func (p *historyPage) browseKey(msg tea.KeyMsg) tea.Cmd {
	ctx, msgs := p.sh.ctx, p.sh.msgs
	k := msg.String()
	if t, ok := typeKeys[k]; ok {
		p.hist.ToggleType(ctx, t)
		p.selected = 0
		return nil
	}
	if t, ok := typeKeys[strings.ToLower(k)]; ok && k != strings.ToLower(k) {
		p.hist.QuickType(ctx, t)
		p.selected = 0
		return nil
	}

	switch k {
	case "up", "k":
		p.selected--
		p.clampSelection()
	case "down", "j":
		p.selected++
		p.clampSelection()
	case "right", "n", "pgdown":
		p.hist.NextPage()
		p.selected = 0
	case "left", "p", "pgup":
		p.hist.PrevPage()
		p.selected = 0
	case "c":
		p.hist.ClearFilter(ctx)
		p.search.SetValue("")
		p.selected = 0
	case "v":
		p.hist.ToggleView()
	case "/":
		p.mode = modeSearch
		return p.search.Focus()
	case "f":
		f := p.hist.Filter()
		p.dialog = newDialog(msgs.T(i18n.MsgFilterDates),
			[]string{msgs.T(i18n.MsgFieldDate), msgs.T(i18n.MsgFieldFrom), msgs.T(i18n.MsgFieldTo)},
			[]string{f.Date, f.From, f.To})
		p.mode = modeDates
		return textinput.Blink
	case "x", "delete":
		if id := p.selectedID(); id != 0 && p.hist.RequestDelete(id) == nil {
			p.mode = modeConfirm
		}
	case "e":
		id := p.selectedID()
		if id == 0 {
			return nil
		}
		d, err := p.hist.BeginEdit(id)
		if err != nil {
			return nil
		}
		p.draft = d
		labels := []string{msgs.T(i18n.MsgFieldMealType), msgs.T(i18n.MsgFieldNotes)}
		values := []string{d.MealType, d.Notes}
		for _, f := range d.Foods {
			labels = append(labels, f.Name+" · "+msgs.T(i18n.MsgFieldAmount))
			values = append(values, f.Amount)
		}
		p.dialog = newDialog(msgs.T(i18n.MsgEditMeal), labels, values)
		p.mode = modeEdit
		return textinput.Blink
	case "a":
		p.mode = modeCreate
		return p.create.Enter()
	case "m":
		expires := p.sh.now().In(p.sh.location()).AddDate(0, 0, 7).Format("2006-01-02")
		p.dialog = newDialog(msgs.T(i18n.MsgShareMeals),
			[]string{msgs.T(i18n.MsgFieldRecipient), msgs.T(i18n.MsgFieldExpires)},
			[]string{"", expires})
		p.mode = modeShare
		return textinput.Blink
	case "o":
		p.dialog = newDialog(msgs.T(i18n.MsgExportMeals), []string{msgs.T(i18n.MsgExportPath)}, []string{"meals.csv"})
		p.mode = modeExport
		return textinput.Blink
	case "A":
		p.busy = true
		hist, ctx := p.hist, p.sh.ctx
		return func() tea.Msg {
			pat, err := hist.Analyze(ctx)
			return patternsMsg{patterns: pat, err: err}
		}
	case "y":
		if p.link != "" {
			return p.copyLink()
		}
	}
	return nil
}

func (p *historyPage) submitDialog() tea.Cmd {
	hist, ctx, d := p.hist, p.sh.ctx, p.dialog
	switch p.mode {
	case modeDates:
		f := hist.Filter()
		f.Date, f.From, f.To = d.Value(0), d.Value(1), d.Value(2)
		hist.SetFilter(ctx, history.FilterFromQuery(f.Query()))
		p.mode = modeBrowse
		p.dialog = nil
		p.selected = 0
		return nil

	case modeShare:
		email, expires := d.Value(0), d.Value(1)
		p.busy = true
		return func() tea.Msg {
			link, alert, err := hist.Share(ctx, email, expires)
			return historyDoneMsg{alert: alert, err: err, link: link}
		}

	case modeExport:
		path := d.Value(0)
		p.busy = true
		return func() tea.Msg {
			alert, err := hist.ExportFile(path)
			return historyDoneMsg{alert: alert, err: err}
		}

	case modeEdit:
		draft := *p.draft
		draft.Foods = append([]history.DraftFood(nil), p.draft.Foods...)
		draft.MealType, draft.Notes = d.Value(0), d.Value(1)
		for i := range draft.Foods {
			draft.Foods[i].Amount = d.Value(2 + i)
		}
		p.busy = true
		return func() tea.Msg {
			alert, err := hist.SaveEdit(ctx, &draft)
			return historyDoneMsg{alert: alert, err: err}
		}
	}
	return nil
}

func (p *historyPage) copyLink() tea.Cmd {
	if err := clipboardWriteAll(p.link); err != nil {
		p.sh.logger.Debug("clipboard unavailable")
		return alertCmd(nav.Success(p.sh.msgs.T(i18n.MsgShareLink, p.link)))
	}
	return alertCmd(nav.Success(p.sh.msgs.T(i18n.MsgCopied)))
}

func (p *historyPage) View() string {
	s, msgs := p.sh.styles, p.sh.msgs
	if p.mode == modeCreate {
		return p.create.View()
	}

	var sb strings.Builder
	sb.WriteString(s.Title.Render(msgs.T(i18n.MsgPageHistory)))
	sb.WriteString("\n")
	if p.mode == modeSearch || p.search.Value() != "" {
		sb.WriteString(p.search.View())
		sb.WriteString("\n")
	}

	if p.mode == modePatterns && p.patterns != nil {
		sb.WriteString(p.sh.renderer().Patterns(p.patterns))
		return sb.String()
	}

	v := p.hist.Snapshot()
	sb.WriteString(p.sh.renderer().History(v, p.selected))
	sb.WriteString("\n\n")

	switch {
	case p.mode == modeConfirm && v.PendingDelete != 0:
		sb.WriteString(s.Warning.Render(msgs.T(i18n.MsgConfirmDelete)))
		sb.WriteString("\n")
		sb.WriteString(s.Muted.Render(msgs.T(i18n.MsgConfirmKeys)))
	case p.dialog != nil:
		sb.WriteString(p.dialog.View(s))
	case p.busy:
		sb.WriteString(s.Muted.Render(msgs.T(i18n.MsgLoading)))
	default:
		sb.WriteString(s.Muted.Render("b/l/d/s B/L/D/S · / · f · c · v · ←/→ · a · e · x · m · o · A"))
	}
	if p.link != "" && p.mode == modeBrowse {
		sb.WriteString("\n")
		sb.WriteString(s.Link.Render(p.link))
	}
	return sb.String()
}
