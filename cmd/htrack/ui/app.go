package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"htrack/internal/auth"
	"htrack/internal/config"
	"htrack/internal/dashboard"
	"htrack/internal/forms"
	"htrack/internal/history"
	"htrack/internal/i18n"
	"htrack/internal/logging"
	"htrack/internal/nav"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// escHandler is implemented by pages with sub-modes that esc should leave
// before navigating back.
type escHandler interface {
	HandleEsc() bool
}

// App is the root bubbletea model. Each page is a small model; App owns
// navigation, alerts and the global keys and routes command results to the
// page that started them.
type App struct {
	sh       *shared
	keys     keyMap
	help     help.Model
	nav      *nav.Controller[tea.Cmd]
	alerts   *nav.Alerts
	pages    map[nav.Page]page
	helpPg   *helpPage
	showHelp bool
	checking bool
	quitting bool

	configCh chan *config.Config
	watcher  *config.Watcher
}

// NewApp builds every page. ctx bounds all background work started by the
// UI.
func NewApp(ctx context.Context, deps Deps) *App {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}
	sh := &shared{
		Deps:   deps,
		ctx:    ctx,
		layout: NewLayoutConfig(80, 24),
		logger: deps.Logger.For(logging.CategoryUI),
	}
	a := &App{
		sh:       sh,
		keys:     defaultKeyMap(),
		help:     help.New(),
		checking: true,
	}
	a.applyConfig(deps.Config)
	a.nav = nav.NewController[tea.Cmd](nav.Login, func() bool {
		return deps.Flow != nil && deps.Flow.State() == auth.Authenticated
	})
	a.alerts = nav.NewAlerts(deps.Config.GetAlertTTL())
	a.buildPages()
	return a
}

func (a *App) applyConfig(cfg *config.Config) {
	a.sh.Config = cfg
	a.sh.msgs = i18n.NewPrinter(i18n.Locale(cfg.UI.Locale))
	a.sh.styles = NewStyles(ThemeFor(cfg.UI.Theme))
}

// buildPages creates the page models and registers their entry hooks.
// It runs again when a reload changes anything the pages captured.
func (a *App) buildPages() {
	sh, cfg := a.sh, a.sh.Config
	logger := sh.Logger
	loc := cfg.GetLocation()

	loader := dashboard.NewLoader(sh.API, sh.msgs, logger.For(logging.CategoryDashboard), dashboard.Options{
		TrendDays:          cfg.Dashboard.TrendDays,
		CorrelationDays:    cfg.Dashboard.CorrelationDays,
		MaxCorrelationRows: cfg.Dashboard.MaxCorrelationRows,
		Location:           loc,
		Now:                sh.Now,
	})
	fd := forms.Deps{
		API:      sh.API,
		Msgs:     sh.msgs,
		Logger:   logger.For(logging.CategoryForms),
		Now:      sh.Now,
		Location: loc,
		Audit:    logger.Audit(),
	}
	hist := history.New(sh.API, sh.msgs, logger.For(logging.CategoryHistory), sh.Store, history.Options{
		PageSize: cfg.UI.PageSize,
		Location: loc,
		Now:      sh.Now,
		PDFFont:  cfg.Export.PDFFont,
		Audit:    logger.Audit(),
	})

	a.pages = map[nav.Page]page{
		nav.Login:         newAuthPage(sh, false),
		nav.Register:      newAuthPage(sh, true),
		nav.Dashboard:     newDashboardPage(sh, loader),
		nav.MealForm:      newFormPage(sh, forms.NewMealForm(fd)),
		nav.HealthLogForm: newFormPage(sh, forms.NewHealthLogForm(fd)),
		nav.SleepForm:     newFormPage(sh, forms.NewSleepForm(fd)),
		nav.MealHistory:   newHistoryPage(sh, hist, forms.NewMealForm(fd)),
		nav.Insights:      newInsightsPage(sh, loader),
	}
	for p, pg := range a.pages {
		a.nav.OnEnter(p, pg.Enter)
	}
	a.helpPg = newHelpPage(sh)
}

func (a *App) current() page {
	return a.pages[a.nav.Current()]
}

// Init checks the stored session and starts listening for config reloads.
func (a *App) Init() tea.Cmd {
	flow, ctx := a.sh.Flow, a.sh.ctx
	check := func() tea.Msg {
		if flow == nil {
			return authCheckedMsg{state: auth.Unauthenticated}
		}
		state, err := flow.CheckAuthentication(ctx)
		return authCheckedMsg{state: state, err: err}
	}
	return tea.Batch(check, a.waitForConfig())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.sh.layout = NewLayoutConfig(msg.Width, msg.Height)
		a.help.Width = msg.Width
		cmds := make([]tea.Cmd, 0, len(a.pages)+1)
		for _, p := range a.pages {
			cmds = append(cmds, p.Update(msg))
		}
		cmds = append(cmds, a.helpPg.Update(msg))
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case authCheckedMsg:
		a.checking = false
		var cmds []tea.Cmd
		if errors.Is(msg.err, auth.ErrAuthExpired) {
			cmds = append(cmds, a.pushAlert(nav.Failure(a.sh.msgs.T(i18n.MsgSessionExpired))))
		} else if msg.err != nil {
			a.sh.logger.Warn("checking stored session", zap.Error(msg.err))
		}
		target := nav.Login
		if msg.state == auth.Authenticated {
			target = nav.Dashboard
		}
		cmds = append(cmds, a.navigate(target))
		return a, tea.Batch(cmds...)

	case navigateMsg:
		return a, a.navigate(msg.page)

	case alertMsg:
		return a, a.pushAlert(msg.alert)

	case alertExpiredMsg:
		return a, nil

	case loggedOutMsg:
		if msg.err != nil {
			a.sh.logger.Warn("logging out", zap.Error(msg.err))
		}
		return a, tea.Batch(
			a.pushAlert(nav.Success(a.sh.msgs.T(i18n.MsgLogoutSuccess))),
			a.navigate(nav.Login),
		)

	case configChangedMsg:
		return a, tea.Batch(a.reconfigure(msg.cfg), a.waitForConfig())

	case loggedInMsg:
		return a, a.pages[nav.Login].Update(msg)
	case registeredMsg:
		return a, a.pages[nav.Register].Update(msg)
	case panelMsg:
		return a, a.pages[nav.Dashboard].Update(msg)
	case insightsMsg:
		return a, a.pages[nav.Insights].Update(msg)
	case formReadyMsg:
		return a, a.pages[msg.page].Update(msg)
	case formDoneMsg:
		return a, a.pages[msg.page].Update(msg)
	case historyLoadedMsg, historyDoneMsg, patternsMsg, DebounceMsg:
		return a, a.pages[nav.MealHistory].Update(msg)
	}

	if a.showHelp {
		return a, a.helpPg.Update(msg)
	}
	return a, a.current().Update(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return tea.Quit
	}
	if a.checking {
		return nil
	}

	cur := a.current()
	if key.Matches(msg, a.keys.Back) {
		if a.showHelp {
			a.showHelp = false
			return nil
		}
		if h, ok := cur.(escHandler); ok && h.HandleEsc() {
			return nil
		}
		_, cmd := a.nav.Back()
		return cmd
	}
	if key.Matches(msg, a.keys.Logout) && a.authenticated() {
		return a.logout()
	}

	if !cur.Capturing() {
		switch {
		case key.Matches(msg, a.keys.Quit):
			a.quitting = true
			return tea.Quit
		case key.Matches(msg, a.keys.Help):
			a.showHelp = !a.showHelp
			if a.showHelp {
				return a.helpPg.Enter()
			}
			return nil
		case key.Matches(msg, a.keys.Reload) && !a.showHelp:
			return cur.Enter()
		}
		if p, ok := a.keys.pageFor(msg); ok {
			return a.navigate(p)
		}
	}

	if a.showHelp {
		return a.helpPg.Update(msg)
	}
	return cur.Update(msg)
}

func (a *App) authenticated() bool {
	return a.sh.Flow != nil && a.sh.Flow.State() == auth.Authenticated
}

// navigate shows p, or Login with a notice when p needs a session.
func (a *App) navigate(p nav.Page) tea.Cmd {
	a.showHelp = false
	shown, cmd := a.nav.Navigate(p)
	a.sh.logger.Debug("navigate", zap.String("requested", string(p)), zap.String("shown", string(shown)))
	if shown != p {
		return tea.Batch(cmd, a.pushAlert(nav.Failure(a.sh.msgs.T(i18n.MsgLoginRequired))))
	}
	return cmd
}

// pushAlert shows al and schedules a redraw for when it expires.
func (a *App) pushAlert(al nav.Alert) tea.Cmd {
	if al.Text == "" {
		return nil
	}
	a.alerts.Push(al)
	return tea.Tick(a.alerts.TTL(), func(time.Time) tea.Msg { return alertExpiredMsg{} })
}

func (a *App) logout() tea.Cmd {
	flow, ctx := a.sh.Flow, a.sh.ctx
	return func() tea.Msg {
		return loggedOutMsg{err: flow.Logout(ctx)}
	}
}

// reconfigure applies a reloaded config. Theme changes only restyle;
// anything the pages captured at construction rebuilds them.
func (a *App) reconfigure(cfg *config.Config) tea.Cmd {
	prev := a.sh.Config
	a.applyConfig(cfg)
	a.alerts = nav.NewAlerts(cfg.GetAlertTTL())
	a.sh.logger.Info("config reloaded",
		zap.String("locale", cfg.UI.Locale),
		zap.String("theme", cfg.UI.Theme))

	if prev.UI.Locale == cfg.UI.Locale &&
		prev.UI.PageSize == cfg.UI.PageSize &&
		prev.UI.Timezone == cfg.UI.Timezone &&
		prev.Dashboard == cfg.Dashboard &&
		prev.Export == cfg.Export {
		a.helpPg.render()
		return nil
	}
	a.buildPages()
	size := tea.WindowSizeMsg{Width: a.sh.layout.TerminalWidth, Height: a.sh.layout.TerminalHeight}
	for _, p := range a.pages {
		p.Update(size)
	}
	_, cmd := a.nav.Navigate(a.nav.Current())
	return cmd
}

// watchConfig reloads the config file on change for the lifetime of ctx.
func (a *App) watchConfig(ctx context.Context) error {
	ch := make(chan *config.Config, 1)
	w, err := config.NewWatcher(a.sh.ConfigPath, func(cfg *config.Config) {
		// Keep only the newest config.
		select {
		case ch <- cfg:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- cfg
		}
	}, a.sh.Logger.For(logging.CategoryBoot))
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start config watcher: %w", err)
	}
	a.configCh = ch
	a.watcher = w
	return nil
}

func (a *App) waitForConfig() tea.Cmd {
	ch, ctx := a.configCh, a.sh.ctx
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case cfg := <-ch:
			return configChangedMsg{cfg: cfg}
		case <-ctx.Done():
			return nil
		}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	s, msgs := a.sh.styles, a.sh.msgs
	r := a.sh.renderer()

	var body string
	switch {
	case a.checking:
		body = s.Muted.Render(msgs.T(i18n.MsgLoading))
	case a.showHelp:
		body = a.helpPg.View()
	default:
		body = a.current().View()
	}

	parts := []string{a.header()}
	for _, al := range a.alerts.Active() {
		parts = append(parts, r.Alert(al))
	}
	parts = append(parts, s.Content.Render(body), s.Footer.Render(a.help.View(a.keys)))
	return s.App.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (a *App) header() string {
	s, msgs := a.sh.styles, a.sh.msgs

	user := s.Muted.Render(msgs.T(i18n.MsgNotLoggedIn))
	if a.authenticated() {
		if u := a.sh.Flow.Session().User(); u != nil {
			user = s.Subtitle.Render(msgs.T(i18n.MsgLoggedInAs, u.Username))
		}
	}
	title := s.Header.Render("htrack") + "  " + user
	if !a.authenticated() {
		return title
	}

	cur := a.nav.Current()
	tabs := make([]string, 0, 6)
	for i, p := range nav.Pages[:6] {
		label := fmt.Sprintf("%d %s", i+1, p.Title(msgs))
		if p == cur {
			tabs = append(tabs, s.TabOn.Render(label))
		} else {
			tabs = append(tabs, s.Tab.Render(label))
		}
	}
	return title + "\n" + strings.Join(tabs, " ")
}

// Run starts the interactive UI and blocks until the user quits or ctx is
// cancelled. When deps.ConfigPath is set, edits to that file apply live.
func Run(ctx context.Context, deps Deps, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := NewApp(ctx, deps)
	if deps.ConfigPath != "" {
		if err := app.watchConfig(ctx); err != nil {
			app.sh.logger.Warn("config hot reload disabled", zap.Error(err))
		} else {
			defer app.watcher.Stop()
		}
	}

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(app, opts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
