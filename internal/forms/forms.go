// Package forms implements the meal, health-log and sleep entry forms.
//
// Every form follows the same contract: values are read as strings keyed by
// field name, the required set is checked, numbers are parsed, and only then
// is the payload sent. Validation failures never reach the network.
package forms

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"htrack/internal/api"
	"htrack/internal/i18n"
	"htrack/internal/logging"
	"htrack/internal/nav"

	"go.uber.org/zap"
)

// Kind describes how a field is edited and parsed.
type Kind int

const (
	KindText Kind = iota
	KindTextArea
	KindDate
	KindTime
	KindInt
	KindFloat
	KindSelect
)

// Option is one choice of a select field. An empty Value is a placeholder.
type Option struct {
	Value string
	Label string
}

// Field describes one input. Min and Max bound KindInt fields when Max > 0.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Options  []Option
	Min, Max int
}

// Values holds raw input keyed by field name.
type Values map[string]string

// Get returns the trimmed value of name.
func (v Values) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// ValidationError is returned when input is rejected before any request.
type ValidationError struct {
	Missing []string
	Invalid []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Outcome is what the caller shows after a submit. Next is empty when the
// form should stay open.
type Outcome struct {
	Alert nav.Alert
	Next  nav.Page
}

// Form is the shared contract of the entry forms.
type Form interface {
	Page() nav.Page
	Fields() []Field
	Init(ctx context.Context) Values
	Submit(ctx context.Context, v Values) (Outcome, error)
}

// API is the subset of the backend the forms write to.
type API interface {
	ListFoods(ctx context.Context) ([]api.Food, error)
	CreateMeal(ctx context.Context, in api.MealInput) (*api.Meal, error)
	AddFood(ctx context.Context, mealID int, in api.AddFoodInput) error
	CreateHealthLog(ctx context.Context, in api.HealthLogInput) (*api.HealthLog, error)
	CreateSleep(ctx context.Context, in api.SleepInput) (*api.Sleep, error)
}

var _ API = (*api.Client)(nil)

// Deps are shared by every form.
type Deps struct {
	API    API
	Msgs   *i18n.Printer
	Logger *zap.Logger
	// Now and Location drive the date and time defaults.
	Now      func() time.Time
	Location *time.Location
	// Audit records successful submissions; nil discards them.
	Audit *logging.Auditor
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	return d
}

func (d Deps) now() time.Time {
	return d.Now().In(d.Location)
}

func (d Deps) today() string {
	return d.now().Format("2006-01-02")
}

// parser collects validation problems while a payload is being built.
type parser struct {
	msgs    *i18n.Printer
	fields  map[string]Field
	values  Values
	missing []string
	invalid []string
	message string
}

func newParser(msgs *i18n.Printer, fields []Field, v Values) *parser {
	p := &parser{msgs: msgs, fields: make(map[string]Field, len(fields)), values: v}
	for _, f := range fields {
		p.fields[f.Name] = f
		if f.Required && v.Get(f.Name) == "" {
			p.missing = append(p.missing, f.Name)
		}
	}
	return p
}

func (p *parser) reject(name, message string) {
	p.invalid = append(p.invalid, name)
	if p.message == "" {
		p.message = message
	}
}

func (p *parser) str(name string) string {
	return p.values.Get(name)
}

func (p *parser) int(name string) int {
	n, _ := p.optInt(name)
	if n == nil {
		return 0
	}
	return *n
}

// optInt returns nil for an empty value.
func (p *parser) optInt(name string) (*int, bool) {
	raw := p.str(name)
	if raw == "" {
		return nil, true
	}
	f := p.fields[name]
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.reject(name, p.msgs.T(i18n.MsgInvalidNumber, f.Label))
		return nil, false
	}
	if f.Max > 0 && (n < f.Min || n > f.Max) {
		p.reject(name, p.msgs.T(i18n.MsgOutOfRange, f.Label, f.Min, f.Max))
		return nil, false
	}
	return &n, true
}

func (p *parser) float(name string) float64 {
	n, _ := p.optFloat(name)
	if n == nil {
		return 0
	}
	return *n
}

func (p *parser) optFloat(name string) (*float64, bool) {
	raw := p.str(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n < 0 {
		p.reject(name, p.msgs.T(i18n.MsgInvalidNumber, p.fields[name].Label))
		return nil, false
	}
	return &n, true
}

func (p *parser) date(name string) string {
	raw := p.str(name)
	if raw == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		p.reject(name, p.msgs.T(i18n.MsgInvalidFormat, p.fields[name].Label))
	}
	return raw
}

func (p *parser) clock(name string) string {
	raw := p.str(name)
	if raw == "" {
		return ""
	}
	if _, err := time.Parse("15:04", raw); err != nil {
		p.reject(name, p.msgs.T(i18n.MsgInvalidFormat, p.fields[name].Label))
	}
	return raw
}

// choice rejects values that are not among the field's options.
func (p *parser) choice(name string) string {
	raw := p.str(name)
	if raw == "" {
		return ""
	}
	for _, o := range p.fields[name].Options {
		if o.Value != "" && o.Value == raw {
			return raw
		}
	}
	p.reject(name, p.msgs.T(i18n.MsgInvalidChoice, p.fields[name].Label))
	return raw
}

// err returns the validation error, if any. Missing fields win over
// malformed ones.
func (p *parser) err() error {
	switch {
	case len(p.missing) > 0:
		return &ValidationError{Missing: p.missing, Invalid: p.invalid, Message: p.msgs.T(i18n.MsgRequiredFields)}
	case len(p.invalid) > 0:
		return &ValidationError{Invalid: p.invalid, Message: p.message}
	}
	return nil
}

func rejected(err error) (Outcome, error) {
	return Outcome{Alert: nav.Failure(err.Error())}, err
}

func failed(msgs *i18n.Printer, key string, err error) (Outcome, error) {
	return Outcome{Alert: nav.Failure(msgs.T(key))}, err
}

func succeeded(msgs *i18n.Printer, key string) (Outcome, error) {
	return Outcome{Alert: nav.Success(msgs.T(key)), Next: nav.Dashboard}, nil
}

func ratingField(name, label string, msgs *i18n.Printer, required bool) Field {
	return Field{Name: name, Label: msgs.T(label), Kind: KindInt, Required: required, Min: 1, Max: 5}
}

func submitErr(form string, err error) error {
	return fmt.Errorf("submit %s: %w", form, err)
}
