package forms

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"htrack/internal/api"
	"htrack/internal/api/apitest"
	"htrack/internal/i18n"
	"htrack/internal/nav"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func setup(t *testing.T) (*apitest.Server, Deps) {
	t.Helper()
	srv := apitest.NewServer(t)
	srv.AddUser("dana", "pw")
	access, _ := srv.IssueTokens("dana")
	srv.SetFoods(api.Food{ID: 7, Name: "Rice", Calories: 130}, api.Food{ID: 8, Name: "Apple", Calories: 52})

	c, err := api.New(srv.BaseURL(), api.WithTokenSource(staticToken(access)))
	require.NoError(t, err)
	return srv, Deps{
		API:      c,
		Msgs:     i18n.NewPrinter(i18n.Hebrew),
		Now:      func() time.Time { return time.Date(2024, 6, 2, 9, 5, 0, 0, time.UTC) },
		Location: time.UTC,
	}
}

func validMeal() Values {
	return Values{
		FieldDate:      "2024-06-02",
		FieldTime:      "12:30",
		FieldMealType:  "lunch",
		FieldFood:      "7",
		FieldAmount:    "150",
		FieldFoodNotes: "brown",
		FieldNotes:     "at work",
	}
}

func TestMealForm_InitDefaultsAndFoods(t *testing.T) {
	_, deps := setup(t)
	f := NewMealForm(deps)

	v := f.Init(context.Background())
	assert.Equal(t, Values{FieldDate: "2024-06-02", FieldTime: "09:05"}, v)

	var food Field
	for _, fld := range f.Fields() {
		if fld.Name == FieldFood {
			food = fld
		}
	}
	want := []Option{
		{Value: "", Label: "בחר מזון"},
		{Value: "7", Label: "Rice (130 קלוריות)"},
		{Value: "8", Label: "Apple (52 קלוריות)"},
	}
	if diff := cmp.Diff(want, food.Options); diff != "" {
		t.Errorf("food options mismatch (-want +got):\n%s", diff)
	}
}

func TestMealForm_FoodsFailureCollapsesOptions(t *testing.T) {
	srv, deps := setup(t)
	srv.Fail("GET", "/api/foods/", apitest.Failure{Status: http.StatusInternalServerError, Body: `{}`})

	opts := NewMealForm(deps).LoadFoods(context.Background())
	assert.Equal(t, []Option{{Value: "", Label: "שגיאה בטעינת מזונות"}}, opts)
}

func TestMealForm_SubmitMakesTwoDependentCalls(t *testing.T) {
	srv, deps := setup(t)
	f := NewMealForm(deps)

	out, err := f.Submit(context.Background(), validMeal())
	require.NoError(t, err)
	assert.Equal(t, Outcome{Alert: nav.Success("הארוחה נוספה בהצלחה"), Next: nav.Dashboard}, out)

	var created api.MealInput
	require.NoError(t, srv.LastBody("POST", "/api/meals/", &created))
	assert.Equal(t, api.MealInput{DateTime: "2024-06-02T12:30:00Z", MealType: "lunch", Notes: "at work"}, created)

	meals := srv.Meals()
	require.Len(t, meals, 1)
	var added api.AddFoodInput
	require.NoError(t, srv.LastBody("POST", "/api/meals/"+strconv.Itoa(meals[0].ID)+"/add-food/", &added))
	assert.Equal(t, api.AddFoodInput{FoodID: 7, Amount: 150, Notes: "brown"}, added)
	require.Len(t, meals[0].Foods, 1)
	assert.Equal(t, "Rice", meals[0].Foods[0].Name)
}

func TestMealForm_FirstCallFailureSkipsSecond(t *testing.T) {
	srv, deps := setup(t)
	srv.Fail("POST", "/api/meals/", apitest.Failure{Status: http.StatusBadRequest, Body: `{"meal_type":["bad"]}`})

	out, err := NewMealForm(deps).Submit(context.Background(), validMeal())
	require.Error(t, err)
	assert.False(t, IsValidation(err))
	assert.Equal(t, nav.Failure("שגיאה בהוספת ארוחה. נסה שוב."), out.Alert)
	assert.Empty(t, out.Next)
	assert.Equal(t, 1, srv.TotalCalls())
}

func TestMealForm_SecondCallFailureSameAlert(t *testing.T) {
	_, deps := setup(t)
	v := validMeal()
	v[FieldFood] = "999"

	out, err := NewMealForm(deps).Submit(context.Background(), v)
	require.Error(t, err)
	var herr *api.HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusBadRequest, herr.Status)
	assert.Equal(t, nav.Failure("שגיאה בהוספת ארוחה. נסה שוב."), out.Alert)
}

func TestMealForm_MissingFieldsNeverReachNetwork(t *testing.T) {
	srv, deps := setup(t)
	for _, name := range []string{FieldDate, FieldTime, FieldMealType, FieldFood, FieldAmount} {
		t.Run(name, func(t *testing.T) {
			v := validMeal()
			v[name] = "  "
			out, err := NewMealForm(deps).Submit(context.Background(), v)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, []string{name}, ve.Missing)
			assert.Equal(t, "נא למלא את כל השדות הנדרשים", out.Alert.Text)
			assert.Equal(t, nav.AlertError, out.Alert.Kind)
		})
	}
	assert.Zero(t, srv.TotalCalls())
}

func TestMealForm_UnparsableAmount(t *testing.T) {
	srv, deps := setup(t)
	v := validMeal()
	v[FieldAmount] = "lots"

	_, err := NewMealForm(deps).Submit(context.Background(), v)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{FieldAmount}, ve.Invalid)
	assert.Equal(t, "נא להזין מספר תקין בשדה: כמות (גרם)", ve.Message)
	assert.Zero(t, srv.TotalCalls())
}

func TestMealForm_UnknownMealType(t *testing.T) {
	_, deps := setup(t)
	v := validMeal()
	v[FieldMealType] = "brunch"

	_, err := NewMealForm(deps).Submit(context.Background(), v)
	assert.True(t, IsValidation(err))
}

func TestHealthLogForm_OptionalNumbersAreNull(t *testing.T) {
	srv, deps := setup(t)
	f := NewHealthLogForm(deps)
	assert.Equal(t, Values{FieldDate: "2024-06-02"}, f.Init(context.Background()))

	out, err := f.Submit(context.Background(), Values{
		FieldDate:     "2024-06-02",
		FieldPhysical: "4",
		FieldMental:   "3",
		FieldStool:    "normal",
		FieldSymptoms: "none",
	})
	require.NoError(t, err)
	assert.Equal(t, nav.Dashboard, out.Next)
	assert.Equal(t, "רשומת הבריאות נוספה בהצלחה", out.Alert.Text)

	logs := srv.HealthLogs()
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].StoolCount)
	assert.Nil(t, logs[0].Weight)
	assert.Equal(t, 4, logs[0].PhysicalFeeling)
	assert.Equal(t, "normal", logs[0].StoolQuality)
}

func TestHealthLogForm_OptionalNumbersParsed(t *testing.T) {
	srv, deps := setup(t)
	_, err := NewHealthLogForm(deps).Submit(context.Background(), Values{
		FieldDate:       "2024-06-02",
		FieldPhysical:   "2",
		FieldMental:     "5",
		FieldStoolCount: "2",
		FieldWeight:     "71.5",
	})
	require.NoError(t, err)

	logs := srv.HealthLogs()
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].StoolCount)
	require.NotNil(t, logs[0].Weight)
	assert.Equal(t, 2, *logs[0].StoolCount)
	assert.Equal(t, 71.5, *logs[0].Weight)
}

func TestHealthLogForm_Validation(t *testing.T) {
	srv, deps := setup(t)
	f := NewHealthLogForm(deps)

	_, err := f.Submit(context.Background(), Values{FieldDate: "2024-06-02", FieldPhysical: "4"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{FieldMental}, ve.Missing)

	_, err = f.Submit(context.Background(), Values{FieldDate: "2024-06-02", FieldPhysical: "9", FieldMental: "3"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "הרגשה פיזית (1-5) חייב להיות בין 1 ל-5", ve.Message)

	_, err = f.Submit(context.Background(), Values{FieldDate: "2024-06-02", FieldPhysical: "3", FieldMental: "3", FieldWeight: "heavy"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{FieldWeight}, ve.Invalid)

	assert.Zero(t, srv.TotalCalls())
}

func TestHealthLogForm_BackendFailure(t *testing.T) {
	srv, deps := setup(t)
	srv.Fail("POST", "/api/health-logs/", apitest.Failure{Status: http.StatusInternalServerError, Body: `{"detail":"x"}`})

	out, err := NewHealthLogForm(deps).Submit(context.Background(), Values{FieldDate: "2024-06-02", FieldPhysical: "3", FieldMental: "3"})
	require.Error(t, err)
	assert.Equal(t, nav.Failure("שגיאה בהוספת רשומת בריאות. נסה שוב."), out.Alert)
}

func TestSleepForm_Submit(t *testing.T) {
	srv, deps := setup(t)
	f := NewSleepForm(deps)

	out, err := f.Submit(context.Background(), Values{
		FieldDate:        "2024-06-01",
		FieldDuration:    "7.5",
		FieldQuality:     "4",
		FieldWakeUpEase:  "3",
		FieldEnergyLevel: "5",
		FieldNotes:       "woke once",
	})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Alert: nav.Success("נתוני השינה נוספו בהצלחה"), Next: nav.Dashboard}, out)

	want := []api.SleepInput{{Date: "2024-06-01", Duration: 7.5, Quality: 4, WakeUpEase: 3, EnergyLevel: 5, Notes: "woke once"}}
	if diff := cmp.Diff(want, srv.Sleeps()); diff != "" {
		t.Errorf("sleep payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSleepForm_RequiresEveryRating(t *testing.T) {
	srv, deps := setup(t)
	_, err := NewSleepForm(deps).Submit(context.Background(), Values{
		FieldDate:     "2024-06-01",
		FieldDuration: "7",
		FieldQuality:  "4",
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{FieldWakeUpEase, FieldEnergyLevel}, ve.Missing)
	assert.Zero(t, srv.TotalCalls())
}

func TestSleepForm_BadDate(t *testing.T) {
	_, deps := setup(t)
	_, err := NewSleepForm(deps).Submit(context.Background(), Values{
		FieldDate:        "01/06/2024",
		FieldDuration:    "7",
		FieldQuality:     "4",
		FieldWakeUpEase:  "4",
		FieldEnergyLevel: "4",
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{FieldDate}, ve.Invalid)
}
