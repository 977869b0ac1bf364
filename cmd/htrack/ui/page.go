package ui

import (
	"context"
	"time"

	"htrack/internal/api"
	"htrack/internal/auth"
	"htrack/internal/config"
	"htrack/internal/i18n"
	"htrack/internal/logging"
	"htrack/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Deps wires the app to the rest of htrack.
type Deps struct {
	Config     *config.Config
	ConfigPath string
	Flow       *auth.Flow
	API        *api.Client
	Store      store.KV
	Logger     *logging.Logger
	// Now drives date defaults; nil means time.Now.
	Now func() time.Time
}

// page is one screen. Pages are pointers and mutate in place.
type page interface {
	// Enter runs every time navigation shows the page.
	Enter() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	// Capturing reports whether keystrokes go to a text input, which
	// turns off the single-key global bindings.
	Capturing() bool
}

// shared is the state every page reads.
type shared struct {
	Deps
	ctx    context.Context
	msgs   *i18n.Printer
	styles Styles
	layout LayoutConfig
	logger *zap.Logger
}

func (s *shared) renderer() Renderer {
	return NewRenderer(s.styles, s.msgs, s.layout.ContentWidth())
}

func (s *shared) location() *time.Location {
	return s.Config.GetLocation()
}

func (s *shared) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
