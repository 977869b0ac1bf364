package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// dialog is a small stack of labelled text inputs. Enter on the last input
// submits.
type dialog struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
}

func newDialog(title string, labels, values []string) *dialog {
	d := &dialog{title: title, labels: labels, inputs: make([]textinput.Model, len(labels))}
	for i := range labels {
		ti := textinput.New()
		ti.Prompt = "› "
		ti.Width = 40
		ti.CharLimit = 200
		if i < len(values) {
			ti.SetValue(values[i])
		}
		d.inputs[i] = ti
	}
	d.inputs[0].Focus()
	return d
}

func (d *dialog) move(n int) {
	d.inputs[d.focus].Blur()
	d.focus = (d.focus + n + len(d.inputs)) % len(d.inputs)
	d.inputs[d.focus].Focus()
}

// Update feeds a message to the focused input. submit is set when the user
// confirms the dialog.
func (d *dialog) Update(msg tea.Msg) (submit bool, cmd tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "tab", "down":
			d.move(1)
			return false, nil
		case "shift+tab", "up":
			d.move(-1)
			return false, nil
		case "enter":
			if d.focus < len(d.inputs)-1 {
				d.move(1)
				return false, nil
			}
			return true, nil
		}
	}
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	return false, cmd
}

// Value returns the trimmed value of input i.
func (d *dialog) Value(i int) string {
	return strings.TrimSpace(d.inputs[i].Value())
}

func (d *dialog) View(s Styles) string {
	var sb strings.Builder
	sb.WriteString(s.Title.Render(d.title))
	sb.WriteString("\n")
	for i, l := range d.labels {
		label := s.Label
		if i == d.focus {
			label = s.FocusedLabel
		}
		sb.WriteString(label.Render(l) + "\n")
		sb.WriteString(d.inputs[i].View() + "\n")
	}
	return s.Card.Render(strings.TrimRight(sb.String(), "\n"))
}
