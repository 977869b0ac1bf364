package ui

import (
	"context"
	"errors"
	"strings"

	"htrack/internal/forms"
	"htrack/internal/i18n"
	"htrack/internal/nav"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type submitFunc func(ctx context.Context, v forms.Values) (forms.Outcome, error)

// formPage edits any forms.Form. Select fields cycle with left and right;
// every other kind is a text input.
type formPage struct {
	sh     *shared
	form   forms.Form
	owner  nav.Page
	title  string
	submit submitFunc

	fields  []forms.Field
	inputs  map[string]*textinput.Model
	choices map[string]int
	invalid map[string]bool
	focus   int
	ready   bool
	busy    bool
}

func newFormPage(sh *shared, form forms.Form) *formPage {
	return &formPage{
		sh:     sh,
		form:   form,
		owner:  form.Page(),
		title:  form.Page().Title(sh.msgs),
		submit: form.Submit,
	}
}

func (p *formPage) Capturing() bool { return true }

// Enter resets the form. Initialization may hit the network (the meal
// form loads foods), so it runs as a command.
func (p *formPage) Enter() tea.Cmd {
	p.ready = false
	p.busy = false
	p.invalid = nil
	form, ctx, owner := p.form, p.sh.ctx, p.owner
	return func() tea.Msg {
		return formReadyMsg{page: owner, values: form.Init(ctx)}
	}
}

func (p *formPage) load(values forms.Values) {
	p.fields = p.form.Fields()
	p.inputs = make(map[string]*textinput.Model, len(p.fields))
	p.choices = make(map[string]int)
	for _, f := range p.fields {
		if f.Kind == forms.KindSelect {
			idx := 0
			for i, o := range f.Options {
				if o.Value == values[f.Name] {
					idx = i
				}
			}
			p.choices[f.Name] = idx
			continue
		}
		ti := textinput.New()
		ti.Prompt = "› "
		ti.Width = 40
		ti.CharLimit = 200
		ti.Placeholder = placeholder(f.Kind)
		ti.SetValue(values[f.Name])
		p.inputs[f.Name] = &ti
	}
	p.focus = 0
	p.ready = true
	p.focusCurrent()
}

func placeholder(k forms.Kind) string {
	switch k {
	case forms.KindDate:
		return "YYYY-MM-DD"
	case forms.KindTime:
		return "HH:MM"
	case forms.KindInt, forms.KindFloat:
		return "0"
	}
	return ""
}

func (p *formPage) focusCurrent() {
	for i, f := range p.fields {
		if in, ok := p.inputs[f.Name]; ok {
			if i == p.focus {
				in.Focus()
			} else {
				in.Blur()
			}
		}
	}
}

func (p *formPage) move(d int) {
	if len(p.fields) == 0 {
		return
	}
	p.focus = (p.focus + d + len(p.fields)) % len(p.fields)
	p.focusCurrent()
}

// Values returns the current input keyed by field name.
func (p *formPage) Values() forms.Values {
	v := make(forms.Values, len(p.fields))
	for _, f := range p.fields {
		if f.Kind == forms.KindSelect {
			if idx := p.choices[f.Name]; idx < len(f.Options) {
				v[f.Name] = f.Options[idx].Value
			}
			continue
		}
		v[f.Name] = p.inputs[f.Name].Value()
	}
	return v
}

func (p *formPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case formReadyMsg:
		p.load(msg.values)
		return textinput.Blink

	case formDoneMsg:
		p.busy = false
		p.invalid = nil
		var ve *forms.ValidationError
		if errors.As(msg.err, &ve) {
			p.invalid = make(map[string]bool)
			for _, name := range append(ve.Missing, ve.Invalid...) {
				p.invalid[name] = true
			}
		}
		cmds := []tea.Cmd{alertCmd(msg.outcome.Alert)}
		if msg.outcome.Next != "" {
			cmds = append(cmds, navigateCmd(msg.outcome.Next))
		}
		return tea.Batch(cmds...)

	case tea.KeyMsg:
		if !p.ready {
			return nil
		}
		switch msg.String() {
		case "tab", "down":
			p.move(1)
			return nil
		case "shift+tab", "up":
			p.move(-1)
			return nil
		case "ctrl+s":
			return p.send()
		case "enter":
			if p.focus < len(p.fields)-1 {
				p.move(1)
				return nil
			}
			return p.send()
		}
		f := p.fields[p.focus]
		if f.Kind == forms.KindSelect {
			if n := len(f.Options); n > 0 {
				switch msg.String() {
				case "left", "h":
					p.choices[f.Name] = (p.choices[f.Name] - 1 + n) % n
				case "right", "l", " ":
					p.choices[f.Name] = (p.choices[f.Name] + 1) % n
				}
			}
			return nil
		}
		in := p.inputs[f.Name]
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return cmd
	}

	if p.ready && p.focus < len(p.fields) {
		if in, ok := p.inputs[p.fields[p.focus].Name]; ok {
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			return cmd
		}
	}
	return nil
}

func (p *formPage) send() tea.Cmd {
	if p.busy {
		return nil
	}
	p.busy = true
	submit, ctx, owner, v := p.submit, p.sh.ctx, p.owner, p.Values()
	return func() tea.Msg {
		out, err := submit(ctx, v)
		return formDoneMsg{page: owner, outcome: out, err: err}
	}
}

func (p *formPage) View() string {
	s, msgs := p.sh.styles, p.sh.msgs
	var sb strings.Builder
	sb.WriteString(s.Title.Render(p.title))
	sb.WriteString("\n\n")
	if !p.ready {
		sb.WriteString(s.Muted.Render(msgs.T(i18n.MsgLoading)))
		return sb.String()
	}

	for i, f := range p.fields {
		label := s.Label
		switch {
		case p.invalid[f.Name]:
			label = s.Error
		case i == p.focus:
			label = s.FocusedLabel
		}
		line := label.Render(f.Label)
		if f.Required {
			line += " " + s.Required.Render("*")
		}
		sb.WriteString(line + "\n")
		if f.Kind == forms.KindSelect {
			opt := ""
			if idx := p.choices[f.Name]; idx < len(f.Options) {
				opt = f.Options[idx].Label
			}
			choice := "‹ " + opt + " ›"
			if i == p.focus {
				choice = s.Selected.Render(choice)
			}
			sb.WriteString("  " + choice + "\n\n")
			continue
		}
		sb.WriteString(p.inputs[f.Name].View() + "\n\n")
	}

	if p.busy {
		sb.WriteString(s.Muted.Render(msgs.T(i18n.MsgLoading)))
	} else {
		sb.WriteString(s.ButtonPrimary.Render(msgs.T(i18n.MsgSave)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(s.Muted.Render("tab/shift+tab · ←/→ · enter · ctrl+s"))
	return sb.String()
}
