package forms

import (
	"context"

	"htrack/internal/api"
	"htrack/internal/i18n"
	"htrack/internal/logging"
	"htrack/internal/nav"

	"go.uber.org/zap"
)

const (
	FieldDuration    = "duration"
	FieldQuality     = "quality"
	FieldWakeUpEase  = "wake_up_ease"
	FieldEnergyLevel = "energy_level"
)

// SleepForm records a night's sleep.
type SleepForm struct {
	deps Deps
}

// NewSleepForm creates the sleep form.
func NewSleepForm(deps Deps) *SleepForm {
	return &SleepForm{deps: deps.withDefaults()}
}

func (f *SleepForm) Page() nav.Page { return nav.SleepForm }

func (f *SleepForm) Fields() []Field {
	msgs := f.deps.Msgs
	return []Field{
		{Name: FieldDate, Label: msgs.T(i18n.MsgFieldDate), Kind: KindDate, Required: true},
		{Name: FieldDuration, Label: msgs.T(i18n.MsgFieldDuration), Kind: KindFloat, Required: true},
		ratingField(FieldQuality, i18n.MsgFieldQuality, msgs, true),
		ratingField(FieldWakeUpEase, i18n.MsgFieldWakeEase, msgs, true),
		ratingField(FieldEnergyLevel, i18n.MsgFieldEnergy, msgs, true),
		{Name: FieldNotes, Label: msgs.T(i18n.MsgFieldNotes), Kind: KindTextArea},
	}
}

func (f *SleepForm) Init(context.Context) Values {
	return Values{FieldDate: f.deps.today()}
}

func (f *SleepForm) Submit(ctx context.Context, v Values) (Outcome, error) {
	msgs := f.deps.Msgs
	p := newParser(msgs, f.Fields(), v)
	in := api.SleepInput{
		Date:        p.date(FieldDate),
		Duration:    p.float(FieldDuration),
		Quality:     p.int(FieldQuality),
		WakeUpEase:  p.int(FieldWakeUpEase),
		EnergyLevel: p.int(FieldEnergyLevel),
		Notes:       p.str(FieldNotes),
	}
	if err := p.err(); err != nil {
		return rejected(err)
	}

	if _, err := f.deps.API.CreateSleep(ctx, in); err != nil {
		f.deps.Logger.Warn("creating sleep record", zap.Error(err))
		return failed(msgs, i18n.MsgSleepFailed, submitErr("sleep", err))
	}
	f.deps.Logger.Info("sleep record created", zap.String("date", in.Date))
	f.deps.Audit.Record(logging.AuditSleepLogged, zap.String("date", in.Date))
	return succeeded(msgs, i18n.MsgSleepAdded)
}

var (
	_ Form = (*MealForm)(nil)
	_ Form = (*HealthLogForm)(nil)
	_ Form = (*SleepForm)(nil)
)
