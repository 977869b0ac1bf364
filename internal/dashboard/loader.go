// Package dashboard loads the dashboard and insights panels. Each panel is
// fetched concurrently and fails on its own: an error becomes that panel's
// Error state and never reaches the caller or the other panels.
package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"htrack/internal/api"
	"htrack/internal/i18n"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// API is the subset of the backend the dashboard reads.
type API interface {
	DailyMeals(ctx context.Context, date string) ([]api.Meal, error)
	HealthTrends(ctx context.Context, days int) (*api.HealthTrends, error)
	FoodCorrelations(ctx context.Context, days int) ([]api.FoodCorrelation, error)
	SleepAnalysis(ctx context.Context, days int) (*api.SleepAnalysis, error)
	SymptomTriggers(ctx context.Context, days int) ([]api.SymptomTrigger, error)
}

// Options tunes the loader. Zero values take defaults.
type Options struct {
	TrendDays          int
	CorrelationDays    int
	MaxCorrelationRows int
	Location           *time.Location
	Now                func() time.Time
}

func (o *Options) applyDefaults() {
	if o.TrendDays <= 0 {
		o.TrendDays = 7
	}
	if o.CorrelationDays <= 0 {
		o.CorrelationDays = 30
	}
	if o.MaxCorrelationRows <= 0 {
		o.MaxCorrelationRows = 5
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Dashboard is the result of one load.
type Dashboard struct {
	Meals        MealsPanel
	Trends       TrendsPanel
	Correlations CorrelationsPanel
}

// Loader fetches dashboard panels.
type Loader struct {
	api      API
	msgs     *i18n.Printer
	logger   *zap.Logger
	opts     Options
	inFlight atomic.Int32
}

// NewLoader creates a loader.
func NewLoader(a API, msgs *i18n.Printer, logger *zap.Logger, opts Options) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.applyDefaults()
	return &Loader{api: a, msgs: msgs, logger: logger, opts: opts}
}

// Loading reports whether a Load or LoadInsights is still waiting on any
// panel.
func (l *Loader) Loading() bool {
	return l.inFlight.Load() > 0
}

// Load fetches all three panels concurrently and returns once every one has
// settled. onPanel, if set, is called as each panel settles; calls are
// serialized.
func (l *Loader) Load(ctx context.Context, onPanel func(PanelKind, *Dashboard)) *Dashboard {
	l.inFlight.Add(1)
	defer l.inFlight.Add(-1)

	var (
		d  Dashboard
		mu sync.Mutex
	)
	settle := func(kind PanelKind, apply func()) {
		mu.Lock()
		defer mu.Unlock()
		apply()
		if onPanel != nil {
			onPanel(kind, &d)
		}
	}

	// Branches return nil so one failing panel never cancels the others.
	var eg errgroup.Group
	eg.Go(func() error {
		p := l.LoadMeals(ctx)
		settle(PanelMeals, func() { d.Meals = p })
		return nil
	})
	eg.Go(func() error {
		p := l.LoadTrends(ctx)
		settle(PanelTrends, func() { d.Trends = p })
		return nil
	})
	eg.Go(func() error {
		p := l.LoadCorrelations(ctx)
		settle(PanelCorrelations, func() { d.Correlations = p })
		return nil
	})
	_ = eg.Wait()

	l.logger.Debug("dashboard loaded",
		zap.Int("meals_state", int(d.Meals.State)),
		zap.Int("trends_state", int(d.Trends.State)),
		zap.Int("correlations_state", int(d.Correlations.State)))
	return &d
}

// Today returns today's date in the loader's time zone.
func (l *Loader) Today() string {
	return l.opts.Now().In(l.opts.Location).Format("2006-01-02")
}

// LoadMeals fetches today's meals.
func (l *Loader) LoadMeals(ctx context.Context) MealsPanel {
	meals, err := l.api.DailyMeals(ctx, l.Today())
	if err != nil {
		l.logger.Warn("loading meals panel", zap.Error(err))
		return mealsError(l.msgs)
	}
	return buildMealsPanel(l.msgs, meals, l.opts.Location)
}

// LoadTrends fetches the health trends.
func (l *Loader) LoadTrends(ctx context.Context) TrendsPanel {
	tr, err := l.api.HealthTrends(ctx, l.opts.TrendDays)
	if err != nil {
		l.logger.Warn("loading trends panel", zap.Error(err))
		return trendsError(l.msgs)
	}
	return buildTrendsPanel(l.msgs, tr)
}

// LoadCorrelations fetches the food correlations.
func (l *Loader) LoadCorrelations(ctx context.Context) CorrelationsPanel {
	corr, err := l.api.FoodCorrelations(ctx, l.opts.CorrelationDays)
	if err != nil {
		l.logger.Warn("loading correlations panel", zap.Error(err))
		return correlationsError(l.msgs)
	}
	return buildCorrelationsPanel(l.msgs, corr, l.opts.MaxCorrelationRows)
}
