// Package history is the meal-history component: the fetched meal list,
// client-side filters mirrored to query parameters, list/grid view,
// pagination, and the edit, delete, export and share actions.
//
// Every mutation is followed by exactly one re-fetch of the list; the
// component never patches its local copy.
package history

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"htrack/internal/api"
	"htrack/internal/forms"
	"htrack/internal/i18n"
	"htrack/internal/logging"
	"htrack/internal/nav"
	"htrack/internal/store"

	"go.uber.org/zap"
)

// State is the load state of the list.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ViewMode selects list or grid rendering.
type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewGrid ViewMode = "grid"
)

// ErrNoPendingDelete is returned by ConfirmDelete without a prior
// RequestDelete.
var ErrNoPendingDelete = errors.New("history: no delete pending")

// ErrMealNotFound is returned when an action names a meal that is not in
// the fetched list.
var ErrMealNotFound = errors.New("history: meal not found")

// API is the subset of the backend the history reads and writes.
type API interface {
	ListMeals(ctx context.Context) ([]api.Meal, error)
	UpdateMeal(ctx context.Context, id int, in api.MealUpdate) (*api.Meal, error)
	DeleteMeal(ctx context.Context, id int) error
	ShareMeals(ctx context.Context, in api.ShareRequest) (*api.ShareResult, error)
	MealPatterns(ctx context.Context) (*api.MealPatterns, error)
}

var _ API = (*api.Client)(nil)

// Options tunes the component. Zero values take defaults.
type Options struct {
	PageSize int
	Location *time.Location
	Now      func() time.Time
	// PDFFont is a TTF file used for PDF export; empty uses a core font.
	PDFFont string
	Audit   *logging.Auditor
}

// History holds the meal-history state. It is safe for concurrent use:
// actions run from background commands while the UI reads snapshots.
type History struct {
	api    API
	msgs   *i18n.Printer
	logger *zap.Logger
	kv     store.KV
	opts   Options

	mu            sync.Mutex
	state         State
	meals         []api.Meal
	filter        Filter
	view          ViewMode
	page          int
	pendingDelete int
	fetchSeq      int
	appliedSeq    int
}

// New creates the component in the Loading state. kv may be nil, in which
// case the filter is not persisted.
func New(a API, msgs *i18n.Printer, logger *zap.Logger, kv store.KV, opts Options) *History {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &History{api: a, msgs: msgs, logger: logger, kv: kv, opts: opts, view: ViewList}
}

// Restore reads the last filter from the store. A missing or unreadable
// value leaves the filter empty.
func (h *History) Restore(ctx context.Context) Filter {
	if h.kv == nil {
		return h.Filter()
	}
	raw, err := h.kv.Get(ctx, store.KeyHistoryQuery)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Warn("reading saved history filter", zap.Error(err))
		}
		return h.Filter()
	}
	q, err := url.ParseQuery(raw)
	if err != nil {
		h.logger.Warn("parsing saved history filter", zap.String("query", raw), zap.Error(err))
		return h.Filter()
	}
	f := FilterFromQuery(q)
	h.mu.Lock()
	h.filter = f
	h.page = 0
	h.mu.Unlock()
	return f
}

// Load fetches the meal list. Overlapping loads are not cancelled; the
// result of the most recently started load wins and older results are
// dropped.
func (h *History) Load(ctx context.Context) error {
	h.mu.Lock()
	h.fetchSeq++
	seq := h.fetchSeq
	if h.state != StateLoaded {
		h.state = StateLoading
	}
	h.mu.Unlock()

	meals, err := h.api.ListMeals(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	if seq < h.appliedSeq {
		h.logger.Debug("dropping superseded history fetch", zap.Int("seq", seq), zap.Int("applied", h.appliedSeq))
		return err
	}
	h.appliedSeq = seq
	if err != nil {
		h.logger.Warn("loading meal history", zap.Error(err))
		h.state = StateError
		h.meals = nil
		return fmt.Errorf("load meal history: %w", err)
	}
	h.state = StateLoaded
	h.meals = meals
	h.clampPage()
	h.logger.Debug("meal history loaded", zap.Int("meals", len(meals)))
	return nil
}

// Filter returns the active filter.
func (h *History) Filter() Filter {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.filter
}

// Query returns the active filter as query parameters.
func (h *History) Query() url.Values {
	return h.Filter().Query()
}

// SetFilter replaces the filter, resets to the first page and persists the
// query. Filtering never triggers a fetch.
func (h *History) SetFilter(ctx context.Context, f Filter) {
	h.mu.Lock()
	h.filter = f
	h.page = 0
	h.mu.Unlock()
	h.persist(ctx, f)
}

// QuickType applies the exclusive meal-type filter.
func (h *History) QuickType(ctx context.Context, t string) {
	h.SetFilter(ctx, h.Filter().WithQuickType(t))
}

// ToggleType toggles t in the multi-type filter.
func (h *History) ToggleType(ctx context.Context, t string) {
	h.SetFilter(ctx, h.Filter().ToggleType(t))
}

// ClearFilter removes every predicate.
func (h *History) ClearFilter(ctx context.Context) {
	h.SetFilter(ctx, Filter{})
}

func (h *History) persist(ctx context.Context, f Filter) {
	if h.kv == nil {
		return
	}
	var err error
	if f.IsZero() {
		err = h.kv.Delete(ctx, store.KeyHistoryQuery)
	} else {
		err = h.kv.Set(ctx, store.KeyHistoryQuery, f.Query().Encode())
	}
	if err != nil {
		h.logger.Warn("saving history filter", zap.Error(err))
	}
}

// SetView switches between list and grid.
func (h *History) SetView(m ViewMode) {
	h.mu.Lock()
	h.view = m
	h.mu.Unlock()
}

// ToggleView flips between list and grid.
func (h *History) ToggleView() ViewMode {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.view == ViewList {
		h.view = ViewGrid
	} else {
		h.view = ViewList
	}
	return h.view
}

// SetPage moves to page n (zero based), clamped to the available pages.
func (h *History) SetPage(n int) {
	h.mu.Lock()
	h.page = n
	h.clampPage()
	h.mu.Unlock()
}

// NextPage and PrevPage move one page.
func (h *History) NextPage() { h.step(1) }
func (h *History) PrevPage() { h.step(-1) }

func (h *History) step(d int) {
	h.mu.Lock()
	h.page += d
	h.clampPage()
	h.mu.Unlock()
}

// clampPage requires h.mu.
func (h *History) clampPage() {
	pages := pageCount(len(h.filter.Apply(h.meals, h.opts.Location)), h.opts.PageSize)
	if h.page >= pages {
		h.page = pages - 1
	}
	if h.page < 0 {
		h.page = 0
	}
}

func pageCount(n, size int) int {
	if n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Filtered returns every meal passing the filter, across all pages.
func (h *History) Filtered() []api.Meal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.filter.Apply(h.meals, h.opts.Location)
}

// Meal returns a fetched meal by id.
func (h *History) Meal(id int) (api.Meal, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, m := range h.meals {
		if m.ID == id {
			return m, true
		}
	}
	return api.Meal{}, false
}

// RequestDelete marks id as awaiting confirmation.
func (h *History) RequestDelete(id int) error {
	if _, ok := h.Meal(id); !ok {
		return fmt.Errorf("%w: %d", ErrMealNotFound, id)
	}
	h.mu.Lock()
	h.pendingDelete = id
	h.mu.Unlock()
	return nil
}

// CancelDelete drops a pending delete without any request.
func (h *History) CancelDelete() {
	h.mu.Lock()
	h.pendingDelete = 0
	h.mu.Unlock()
}

// PendingDelete returns the meal awaiting confirmation, or 0.
func (h *History) PendingDelete() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pendingDelete
}

// ConfirmDelete deletes the pending meal, then re-fetches the list.
func (h *History) ConfirmDelete(ctx context.Context) (nav.Alert, error) {
	h.mu.Lock()
	id := h.pendingDelete
	h.pendingDelete = 0
	h.mu.Unlock()
	if id == 0 {
		return nav.Alert{}, ErrNoPendingDelete
	}

	if err := h.api.DeleteMeal(ctx, id); err != nil {
		h.logger.Warn("deleting meal", zap.Int("meal_id", id), zap.Error(err))
		return nav.Failure(h.msgs.T(i18n.MsgMealDeleteFailed)), fmt.Errorf("delete meal %d: %w", id, err)
	}
	h.logger.Info("meal deleted", zap.Int("meal_id", id))
	h.opts.Audit.Record(logging.AuditMealDeleted, zap.Int("meal_id", id))
	h.refetch(ctx)
	return nav.Success(h.msgs.T(i18n.MsgMealDeleted)), nil
}

// Create submits the embedded meal form and re-fetches the list on success.
// The outcome's navigation target is cleared so the caller stays on the
// history page.
func (h *History) Create(ctx context.Context, form *forms.MealForm, v forms.Values) (forms.Outcome, error) {
	out, err := form.Submit(ctx, v)
	if err != nil {
		return out, err
	}
	out.Next = ""
	h.refetch(ctx)
	return out, nil
}

// refetch reloads after a mutation; a failed reload shows in the list state
// and does not fail the mutation.
func (h *History) refetch(ctx context.Context) {
	if err := h.Load(ctx); err != nil {
		h.logger.Debug("re-fetch after mutation failed", zap.Error(err))
	}
}

// Analyze fetches meal pattern statistics.
func (h *History) Analyze(ctx context.Context) (*api.MealPatterns, error) {
	p, err := h.api.MealPatterns(ctx)
	if err != nil {
		h.logger.Warn("analyzing meals", zap.Error(err))
		return nil, fmt.Errorf("analyze meals: %w", err)
	}
	return p, nil
}
