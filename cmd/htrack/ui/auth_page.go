package ui

import (
	"strings"

	"htrack/internal/auth"
	"htrack/internal/i18n"
	"htrack/internal/nav"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type authField struct {
	name   string
	label  string
	secret bool
}

var (
	loginFields = []authField{
		{"username", i18n.MsgFieldUsername, false},
		{"password", i18n.MsgFieldPassword, true},
	}
	registerFields = []authField{
		{"username", i18n.MsgFieldUsername, false},
		{"email", i18n.MsgFieldEmail, false},
		{"first_name", i18n.MsgFieldFirstName, false},
		{"last_name", i18n.MsgFieldLastName, false},
		{"password", i18n.MsgFieldPassword, true},
		{"password2", i18n.MsgFieldPassword2, true},
	}
)

// authPage is the login or the registration screen.
type authPage struct {
	sh       *shared
	register bool
	fields   []authField
	inputs   []textinput.Model
	focus    int
	busy     bool
}

func newAuthPage(sh *shared, register bool) *authPage {
	p := &authPage{sh: sh, register: register, fields: loginFields}
	if register {
		p.fields = registerFields
	}
	p.reset()
	return p
}

func (p *authPage) reset() {
	p.inputs = make([]textinput.Model, len(p.fields))
	for i, f := range p.fields {
		ti := textinput.New()
		ti.Prompt = "› "
		ti.CharLimit = 150
		ti.Width = 40
		if f.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		p.inputs[i] = ti
	}
	p.focus = 0
	p.busy = false
	p.inputs[0].Focus()
}

func (p *authPage) Enter() tea.Cmd {
	p.reset()
	return textinput.Blink
}

func (p *authPage) Capturing() bool { return true }

func (p *authPage) move(d int) {
	p.inputs[p.focus].Blur()
	p.focus = (p.focus + d + len(p.inputs)) % len(p.inputs)
	p.inputs[p.focus].Focus()
}

func (p *authPage) value(name string) string {
	for i, f := range p.fields {
		if f.name == name {
			return p.inputs[i].Value()
		}
	}
	return ""
}

func (p *authPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			p.move(1)
			return nil
		case "shift+tab", "up":
			p.move(-1)
			return nil
		case "ctrl+r":
			if p.register {
				return navigateCmd(nav.Login)
			}
			return navigateCmd(nav.Register)
		case "enter":
			if p.focus < len(p.inputs)-1 {
				p.move(1)
				return nil
			}
			return p.submit()
		}

	case loggedInMsg:
		p.busy = false
		if msg.err != nil {
			p.inputs[p.focus].SetValue("")
			return alertCmd(nav.Failure(auth.Message(msg.err)))
		}
		return tea.Batch(alertCmd(nav.Success(p.sh.msgs.T(i18n.MsgLoginSuccess))), navigateCmd(nav.Dashboard))

	case registeredMsg:
		p.busy = false
		if msg.err != nil {
			return alertCmd(nav.Failure(auth.Message(msg.err)))
		}
		return tea.Batch(alertCmd(nav.Success(p.sh.msgs.T(i18n.MsgRegisterSuccess))), navigateCmd(nav.Login))
	}

	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	return cmd
}

func (p *authPage) submit() tea.Cmd {
	if p.busy {
		return nil
	}
	p.busy = true
	flow, ctx := p.sh.Flow, p.sh.ctx
	if !p.register {
		username, password := strings.TrimSpace(p.value("username")), p.value("password")
		return func() tea.Msg {
			user, err := flow.Login(ctx, username, password)
			return loggedInMsg{user: user, err: err}
		}
	}
	in := auth.RegisterInput{
		Username:  strings.TrimSpace(p.value("username")),
		Email:     strings.TrimSpace(p.value("email")),
		FirstName: strings.TrimSpace(p.value("first_name")),
		LastName:  strings.TrimSpace(p.value("last_name")),
		Password:  p.value("password"),
		Password2: p.value("password2"),
	}
	return func() tea.Msg {
		return registeredMsg{err: flow.Register(ctx, in)}
	}
}

func (p *authPage) View() string {
	s, msgs := p.sh.styles, p.sh.msgs
	title, other := nav.Login, nav.Register
	if p.register {
		title, other = nav.Register, nav.Login
	}

	var sb strings.Builder
	sb.WriteString(s.Title.Render(title.Title(msgs)))
	sb.WriteString("\n\n")
	for i, f := range p.fields {
		label := s.Label
		if i == p.focus {
			label = s.FocusedLabel
		}
		sb.WriteString(label.Render(msgs.T(f.label)) + " " + s.Required.Render("*") + "\n")
		sb.WriteString(p.inputs[i].View() + "\n\n")
	}
	if p.busy {
		sb.WriteString(s.Muted.Render(msgs.T(i18n.MsgLoading)))
	} else {
		sb.WriteString(s.ButtonPrimary.Render(title.Title(msgs)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(s.Muted.Render("ctrl+r: " + other.Title(msgs)))
	return sb.String()
}
