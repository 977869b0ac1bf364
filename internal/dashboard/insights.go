package dashboard

import (
	"context"
	"fmt"
	"math"
	"sync"

	"htrack/internal/api"
	"htrack/internal/i18n"
	"htrack/internal/nav"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SleepPanel summarizes recent sleep.
type SleepPanel struct {
	Status
	Title        string
	DurationText string
	QualityText  string
	EnergyText   string
	Chart        Chart
}

// TriggersPanel lists foods that often preceded a bad day.
type TriggersPanel struct {
	Status
	Title string
	Rows  []TriggerRow
}

// TriggerRow is one suspected trigger food.
type TriggerRow struct {
	Food  string
	Count int
}

// Insights is the result of LoadInsights.
type Insights struct {
	Sleep    SleepPanel
	Triggers TriggersPanel
}

// LoadInsights fetches sleep analysis and symptom triggers concurrently,
// with the same per-panel failure handling as Load.
func (l *Loader) LoadInsights(ctx context.Context) *Insights {
	l.inFlight.Add(1)
	defer l.inFlight.Add(-1)

	var (
		in Insights
		mu sync.Mutex
		eg errgroup.Group
	)
	eg.Go(func() error {
		p := l.LoadSleep(ctx)
		mu.Lock()
		in.Sleep = p
		mu.Unlock()
		return nil
	})
	eg.Go(func() error {
		p := l.LoadTriggers(ctx)
		mu.Lock()
		in.Triggers = p
		mu.Unlock()
		return nil
	})
	_ = eg.Wait()
	return &in
}

// LoadSleep fetches the sleep analysis.
func (l *Loader) LoadSleep(ctx context.Context) SleepPanel {
	p := SleepPanel{Title: l.msgs.T(i18n.MsgSleepAnalysis)}
	sa, err := l.api.SleepAnalysis(ctx, l.opts.CorrelationDays)
	if err != nil {
		l.logger.Warn("loading sleep panel", zap.Error(err))
		p.Status = Status{
			State:   PanelError,
			Message: l.msgs.T(i18n.MsgSleepLoadFailed),
			Link:    &Link{Label: l.msgs.T(i18n.MsgPageSleep), Page: nav.SleepForm},
		}
		return p
	}
	if len(sa.QualityTrend) == 0 && sa.AverageDuration == 0 {
		p.Status = Status{
			State:   PanelEmpty,
			Message: l.msgs.T(i18n.MsgNotEnoughData),
			Link:    &Link{Label: l.msgs.T(i18n.MsgPageSleep), Page: nav.SleepForm},
		}
		return p
	}
	p.Status = ready()
	p.DurationText = fmt.Sprintf("%.1f", round1(float64(sa.AverageDuration)))
	p.QualityText = fmt.Sprintf("%.1f/5", round1(float64(sa.AverageQuality)))
	p.EnergyText = fmt.Sprintf("%.1f/5", round1(float64(sa.AverageEnergy)))

	series := Series{Name: l.msgs.T(i18n.MsgAvgQuality)}
	for _, pt := range sa.QualityTrend {
		p.Chart.Labels = append(p.Chart.Labels, shortDate(pt.Date))
		v := float64(pt.Value)
		if v == 0 {
			v = math.NaN()
		}
		series.Values = append(series.Values, v)
	}
	p.Chart.Series = []Series{series}
	p.Chart.Min, p.Chart.Max = 1, 5
	return p
}

// LoadTriggers fetches the symptom triggers.
func (l *Loader) LoadTriggers(ctx context.Context) TriggersPanel {
	p := TriggersPanel{Title: l.msgs.T(i18n.MsgPossibleTriggers)}
	triggers, err := l.api.SymptomTriggers(ctx, l.opts.CorrelationDays)
	if err != nil {
		l.logger.Warn("loading triggers panel", zap.Error(err))
		p.Status = Status{
			State:   PanelError,
			Message: l.msgs.T(i18n.MsgTriggersFailed),
			Link:    &Link{Label: l.msgs.T(i18n.MsgTryAgain), Page: nav.Insights},
		}
		return p
	}
	if len(triggers) == 0 {
		p.Status = Status{State: PanelEmpty, Message: l.msgs.T(i18n.MsgNoTriggers)}
		return p
	}
	p.Status = ready()
	for _, t := range triggers {
		p.Rows = append(p.Rows, TriggerRow{Food: t.Food, Count: t.Count})
	}
	return p
}

var _ API = (*api.Client)(nil)
