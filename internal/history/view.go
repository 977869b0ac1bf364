package history

import (
	"fmt"
	"strings"
	"time"

	"htrack/internal/api"
	"htrack/internal/i18n"
	"htrack/internal/nav"
)

// Card is one meal prepared for display.
type Card struct {
	ID        int
	Date      string
	Time      string
	Type      string
	TypeLabel string
	Notes     string
	Foods     []CardFood
}

// CardFood is one food item of a card.
type CardFood struct {
	Name   string
	Amount string
	Notes  string
}

// Summary joins the foods as "name amount" pairs.
func (c Card) Summary() string {
	parts := make([]string, len(c.Foods))
	for i, f := range c.Foods {
		parts[i] = f.Name + " " + f.Amount
	}
	return strings.Join(parts, ", ")
}

// View is a consistent snapshot of the component.
type View struct {
	State State
	// Empty is set when the list loaded but nothing passes the filter.
	Empty   bool
	Message string
	Link    *nav.Page

	Filter        Filter
	Mode          ViewMode
	Cards         []Card
	Total         int
	Filtered      int
	Page          int
	Pages         int
	PendingDelete int
}

// Snapshot returns the current page of filtered meals and the state needed
// to render it.
func (h *History) Snapshot() View {
	h.mu.Lock()
	defer h.mu.Unlock()

	v := View{
		State:         h.state,
		Filter:        h.filter,
		Mode:          h.view,
		Total:         len(h.meals),
		Page:          h.page,
		PendingDelete: h.pendingDelete,
	}
	switch h.state {
	case StateLoading:
		v.Message = h.msgs.T(i18n.MsgLoading)
		v.Pages = 1
		return v
	case StateError:
		v.Message = h.msgs.T(i18n.MsgHistoryLoadFailed)
		v.Pages = 1
		return v
	}

	filtered := h.filter.Apply(h.meals, h.opts.Location)
	v.Filtered = len(filtered)
	v.Pages = pageCount(len(filtered), h.opts.PageSize)
	if len(filtered) == 0 {
		v.Empty = true
		v.Message = h.msgs.T(i18n.MsgNoMealsFound)
		link := nav.MealForm
		v.Link = &link
		return v
	}

	start := h.page * h.opts.PageSize
	end := min(start+h.opts.PageSize, len(filtered))
	for _, m := range filtered[start:end] {
		v.Cards = append(v.Cards, h.card(m))
	}
	return v
}

func (h *History) card(m api.Meal) Card {
	return cardFor(h.msgs, h.opts.Location, m)
}

func cardFor(msgs *i18n.Printer, loc *time.Location, m api.Meal) Card {
	local := m.DateTime.In(loc)
	c := Card{
		ID:        m.ID,
		Date:      fmt.Sprintf("%d.%d.%d", local.Day(), int(local.Month()), local.Year()),
		Time:      local.Format("15:04"),
		Type:      m.MealType,
		TypeLabel: msgs.MealType(m.MealType),
		Notes:     m.Notes,
	}
	for _, f := range m.Foods {
		c.Foods = append(c.Foods, CardFood{
			Name:   f.Name,
			Amount: msgs.T(i18n.MsgGrams, f.Amount.String()),
			Notes:  f.Notes,
		})
	}
	return c
}
