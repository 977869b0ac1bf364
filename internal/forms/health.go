package forms

import (
	"context"

	"htrack/internal/api"
	"htrack/internal/i18n"
	"htrack/internal/logging"
	"htrack/internal/nav"

	"go.uber.org/zap"
)

// Health log field names. Date and notes share the meal form's names.
const (
	FieldPhysical   = "physical_feeling"
	FieldMental     = "mental_feeling"
	FieldStool      = "stool_quality"
	FieldStoolCount = "stool_count"
	FieldSymptoms   = "symptoms"
	FieldWeight     = "weight"
)

// HealthLogForm records how the user felt on a day.
type HealthLogForm struct {
	deps Deps
}

// NewHealthLogForm creates the health log form.
func NewHealthLogForm(deps Deps) *HealthLogForm {
	return &HealthLogForm{deps: deps.withDefaults()}
}

func (f *HealthLogForm) Page() nav.Page { return nav.HealthLogForm }

func (f *HealthLogForm) Fields() []Field {
	msgs := f.deps.Msgs
	stool := []Option{{Value: "", Label: "-"}}
	for _, q := range api.StoolQualities {
		stool = append(stool, Option{Value: q, Label: msgs.StoolQuality(q)})
	}
	return []Field{
		{Name: FieldDate, Label: msgs.T(i18n.MsgFieldDate), Kind: KindDate, Required: true},
		ratingField(FieldPhysical, i18n.MsgFieldPhysical, msgs, true),
		ratingField(FieldMental, i18n.MsgFieldMental, msgs, true),
		{Name: FieldStool, Label: msgs.T(i18n.MsgFieldStool), Kind: KindSelect, Options: stool},
		{Name: FieldStoolCount, Label: msgs.T(i18n.MsgFieldStoolCnt), Kind: KindInt},
		{Name: FieldSymptoms, Label: msgs.T(i18n.MsgFieldSymptoms), Kind: KindText},
		{Name: FieldWeight, Label: msgs.T(i18n.MsgFieldWeight), Kind: KindFloat},
		{Name: FieldNotes, Label: msgs.T(i18n.MsgFieldNotes), Kind: KindTextArea},
	}
}

// Init resets the form to today's date.
func (f *HealthLogForm) Init(context.Context) Values {
	return Values{FieldDate: f.deps.today()}
}

// Submit posts the health log. Empty stool count and weight are sent as
// null.
func (f *HealthLogForm) Submit(ctx context.Context, v Values) (Outcome, error) {
	msgs := f.deps.Msgs
	p := newParser(msgs, f.Fields(), v)
	in := api.HealthLogInput{
		Date:            p.date(FieldDate),
		PhysicalFeeling: p.int(FieldPhysical),
		MentalFeeling:   p.int(FieldMental),
		StoolQuality:    p.choice(FieldStool),
		Symptoms:        p.str(FieldSymptoms),
		Notes:           p.str(FieldNotes),
	}
	in.StoolCount, _ = p.optInt(FieldStoolCount)
	in.Weight, _ = p.optFloat(FieldWeight)
	if err := p.err(); err != nil {
		return rejected(err)
	}

	if _, err := f.deps.API.CreateHealthLog(ctx, in); err != nil {
		f.deps.Logger.Warn("creating health log", zap.Error(err))
		return failed(msgs, i18n.MsgHealthLogFailed, submitErr("health log", err))
	}
	f.deps.Logger.Info("health log created", zap.String("date", in.Date))
	f.deps.Audit.Record(logging.AuditHealthLogged, zap.String("date", in.Date))
	return succeeded(msgs, i18n.MsgHealthLogAdded)
}
