package history

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"htrack/internal/api"
	"htrack/internal/forms"
	"htrack/internal/i18n"
	"htrack/internal/logging"
	"htrack/internal/nav"

	"go.uber.org/zap"
)

// Draft is an in-progress edit of a meal.
type Draft struct {
	MealID   int
	DateTime time.Time
	MealType string
	Notes    string
	Foods    []DraftFood
}

// DraftFood is one editable food item. Amount stays a string until save so
// the edit input can hold partial values.
type DraftFood struct {
	FoodID int
	Name   string
	Amount string
	Notes  string
}

// BeginEdit returns a draft prefilled with the meal's foods and amounts.
func (h *History) BeginEdit(id int) (*Draft, error) {
	m, ok := h.Meal(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrMealNotFound, id)
	}
	d := &Draft{MealID: m.ID, DateTime: m.DateTime, MealType: m.MealType, Notes: m.Notes}
	for _, f := range m.Foods {
		d.Foods = append(d.Foods, DraftFood{FoodID: f.FoodID, Name: f.Name, Amount: f.Amount.String(), Notes: f.Notes})
	}
	return d, nil
}

// Payload validates the draft and builds the update request.
func (d *Draft) Payload(msgs *i18n.Printer) (api.MealUpdate, error) {
	if !slices.Contains(api.MealTypes, d.MealType) {
		return api.MealUpdate{}, &forms.ValidationError{
			Invalid: []string{forms.FieldMealType},
			Message: msgs.T(i18n.MsgInvalidChoice, msgs.T(i18n.MsgFieldMealType)),
		}
	}
	up := api.MealUpdate{
		DateTime: d.DateTime.UTC().Format(time.RFC3339),
		MealType: d.MealType,
		Notes:    d.Notes,
		Foods:    make([]api.MealFoodInput, 0, len(d.Foods)),
	}
	for i, f := range d.Foods {
		amount, err := strconv.ParseFloat(strings.TrimSpace(f.Amount), 64)
		if err != nil || amount <= 0 {
			return api.MealUpdate{}, &forms.ValidationError{
				Invalid: []string{fmt.Sprintf("foods[%d].amount", i)},
				Message: msgs.T(i18n.MsgInvalidNumber, f.Name),
			}
		}
		up.Foods = append(up.Foods, api.MealFoodInput{FoodID: f.FoodID, Name: f.Name, Amount: amount, Notes: f.Notes})
	}
	return up, nil
}

// SaveEdit sends the whole meal with the edited foods, then re-fetches the
// list.
func (h *History) SaveEdit(ctx context.Context, d *Draft) (nav.Alert, error) {
	up, err := d.Payload(h.msgs)
	if err != nil {
		return nav.Failure(err.Error()), err
	}
	if _, err := h.api.UpdateMeal(ctx, d.MealID, up); err != nil {
		h.logger.Warn("updating meal", zap.Int("meal_id", d.MealID), zap.Error(err))
		return nav.Failure(h.msgs.T(i18n.MsgMealUpdateFailed)), fmt.Errorf("update meal %d: %w", d.MealID, err)
	}
	h.logger.Info("meal updated", zap.Int("meal_id", d.MealID), zap.Int("foods", len(up.Foods)))
	h.opts.Audit.Record(logging.AuditMealUpdated, zap.Int("meal_id", d.MealID), zap.Int("foods", len(up.Foods)))
	h.refetch(ctx)
	return nav.Success(h.msgs.T(i18n.MsgMealUpdated)), nil
}
