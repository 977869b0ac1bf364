package nav

import (
	"sync"
	"time"
)

// AlertKind is success or error.
type AlertKind int

const (
	AlertSuccess AlertKind = iota
	AlertError
)

// Alert is a transient message shown above the page.
type Alert struct {
	Kind    AlertKind
	Text    string
	shownAt time.Time
}

// Success builds a success alert.
func Success(text string) Alert { return Alert{Kind: AlertSuccess, Text: text} }

// Failure builds an error alert.
func Failure(text string) Alert { return Alert{Kind: AlertError, Text: text} }

// Alerts holds visible alerts until they expire.
type Alerts struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Alert
}

// NewAlerts creates a queue whose alerts live for ttl.
func NewAlerts(ttl time.Duration) *Alerts {
	return &Alerts{ttl: ttl, now: time.Now}
}

// TTL returns how long alerts stay visible.
func (a *Alerts) TTL() time.Duration {
	return a.ttl
}

// Push shows an alert. Empty text is ignored.
func (a *Alerts) Push(al Alert) {
	if al.Text == "" {
		return
	}
	a.mu.Lock()
	al.shownAt = a.now()
	a.items = append(a.items, al)
	a.mu.Unlock()
}

// Active drops expired alerts and returns the rest, oldest first.
func (a *Alerts) Active() []Alert {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	kept := a.items[:0]
	for _, al := range a.items {
		if now.Sub(al.shownAt) < a.ttl {
			kept = append(kept, al)
		}
	}
	a.items = kept
	return append([]Alert(nil), kept...)
}

// Clear removes all alerts.
func (a *Alerts) Clear() {
	a.mu.Lock()
	a.items = nil
	a.mu.Unlock()
}
