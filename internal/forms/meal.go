package forms

import (
	"context"
	"strconv"
	"sync"

	"htrack/internal/api"
	"htrack/internal/i18n"
	"htrack/internal/logging"
	"htrack/internal/nav"

	"go.uber.org/zap"
)

// Meal form field names.
const (
	FieldDate      = "date"
	FieldTime      = "time"
	FieldMealType  = "meal_type"
	FieldFood      = "food"
	FieldAmount    = "amount"
	FieldFoodNotes = "food_notes"
	FieldNotes     = "notes"
)

// MealForm creates a meal with one food item.
type MealForm struct {
	deps Deps

	mu    sync.Mutex
	foods []Option
}

// NewMealForm creates the meal form.
func NewMealForm(deps Deps) *MealForm {
	deps = deps.withDefaults()
	return &MealForm{
		deps:  deps,
		foods: []Option{{Value: "", Label: deps.Msgs.T(i18n.MsgLoading)}},
	}
}

func (f *MealForm) Page() nav.Page { return nav.MealForm }

func (f *MealForm) Fields() []Field {
	msgs := f.deps.Msgs
	types := make([]Option, 0, len(api.MealTypes))
	for _, t := range api.MealTypes {
		types = append(types, Option{Value: t, Label: msgs.MealType(t)})
	}

	f.mu.Lock()
	foods := append([]Option(nil), f.foods...)
	f.mu.Unlock()

	return []Field{
		{Name: FieldDate, Label: msgs.T(i18n.MsgFieldDate), Kind: KindDate, Required: true},
		{Name: FieldTime, Label: msgs.T(i18n.MsgFieldTime), Kind: KindTime, Required: true},
		{Name: FieldMealType, Label: msgs.T(i18n.MsgFieldMealType), Kind: KindSelect, Required: true, Options: types},
		{Name: FieldFood, Label: msgs.T(i18n.MsgFieldFood), Kind: KindSelect, Required: true, Options: foods},
		{Name: FieldAmount, Label: msgs.T(i18n.MsgFieldAmount), Kind: KindInt, Required: true},
		{Name: FieldFoodNotes, Label: msgs.T(i18n.MsgFieldFoodNotes), Kind: KindText},
		{Name: FieldNotes, Label: msgs.T(i18n.MsgFieldNotes), Kind: KindTextArea},
	}
}

// Init resets the form to today's date and the current time and reloads
// the food options.
func (f *MealForm) Init(ctx context.Context) Values {
	f.LoadFoods(ctx)
	now := f.deps.now()
	return Values{
		FieldDate: now.Format("2006-01-02"),
		FieldTime: now.Format("15:04"),
	}
}

// LoadFoods fetches the food catalog into the food options. On failure the
// options collapse to a single error entry.
func (f *MealForm) LoadFoods(ctx context.Context) []Option {
	msgs := f.deps.Msgs
	foods, err := f.deps.API.ListFoods(ctx)

	var opts []Option
	if err != nil {
		f.deps.Logger.Warn("loading foods", zap.Error(err))
		opts = []Option{{Value: "", Label: msgs.T(i18n.MsgFoodsLoadFailed)}}
	} else {
		opts = make([]Option, 0, len(foods)+1)
		opts = append(opts, Option{Value: "", Label: msgs.T(i18n.MsgSelectFood)})
		for _, food := range foods {
			opts = append(opts, Option{
				Value: strconv.Itoa(food.ID),
				Label: msgs.T(i18n.MsgFoodOption, food.Name, food.Calories.String()),
			})
		}
	}

	f.mu.Lock()
	f.foods = opts
	f.mu.Unlock()
	return opts
}

// Submit creates the meal, then attaches the food to it. The second call
// only runs if the first succeeded; either failure yields the same alert.
func (f *MealForm) Submit(ctx context.Context, v Values) (Outcome, error) {
	msgs := f.deps.Msgs
	p := newParser(msgs, f.Fields(), v)
	date := p.date(FieldDate)
	clock := p.clock(FieldTime)
	mealType := p.choice(FieldMealType)
	foodID := p.int(FieldFood)
	amount := p.int(FieldAmount)
	if err := p.err(); err != nil {
		return rejected(err)
	}

	meal, err := f.deps.API.CreateMeal(ctx, api.MealInput{
		DateTime: date + "T" + clock + ":00Z",
		MealType: mealType,
		Notes:    p.str(FieldNotes),
	})
	if err != nil {
		f.deps.Logger.Warn("creating meal", zap.Error(err))
		return failed(msgs, i18n.MsgMealAddFailed, submitErr("meal", err))
	}

	err = f.deps.API.AddFood(ctx, meal.ID, api.AddFoodInput{
		FoodID: foodID,
		Amount: amount,
		Notes:  p.str(FieldFoodNotes),
	})
	if err != nil {
		f.deps.Logger.Warn("adding food to meal", zap.Int("meal_id", meal.ID), zap.Error(err))
		return failed(msgs, i18n.MsgMealAddFailed, submitErr("meal", err))
	}

	f.deps.Logger.Info("meal created", zap.Int("meal_id", meal.ID), zap.String("meal_type", mealType))
	f.deps.Audit.Record(logging.AuditMealCreated, zap.Int("meal_id", meal.ID), zap.Int("food_id", foodID))
	return succeeded(msgs, i18n.MsgMealAdded)
}
