package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFilterDelay is how long the history filter waits for typing to
// stop before it is applied.
const DefaultFilterDelay = 300 * time.Millisecond

// DebounceMsg is delivered when a debounce timer fires.
type DebounceMsg struct {
	ID  string
	seq int
}

// Debouncer coalesces rapid events into a single action. Each Trigger
// starts a timer; only the message of the latest trigger is Ready.
type Debouncer struct {
	mu       sync.Mutex
	id       string
	seq      int
	duration time.Duration
}

// NewDebouncer creates a debouncer whose messages carry id.
func NewDebouncer(id string, duration time.Duration) *Debouncer {
	return &Debouncer{id: id, duration: duration}
}

// Trigger restarts the timer and returns the command that waits for it.
func (d *Debouncer) Trigger() tea.Cmd {
	d.mu.Lock()
	d.seq++
	msg := DebounceMsg{ID: d.id, seq: d.seq}
	d.mu.Unlock()

	return tea.Tick(d.duration, func(time.Time) tea.Msg { return msg })
}

// Ready reports whether msg belongs to this debouncer and no trigger
// happened after it.
func (d *Debouncer) Ready(msg DebounceMsg) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return msg.ID == d.id && msg.seq == d.seq
}

// Cancel makes every outstanding message stale.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.seq++
	d.mu.Unlock()
}
