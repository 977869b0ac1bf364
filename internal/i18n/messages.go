package i18n

// Message keys. The English text doubles as the key and as the fallback.
const (
	MsgLoginSuccess      = "Logged in successfully!"
	MsgLoginFailed       = "Login failed, please try again"
	MsgPasswordMismatch  = "Passwords do not match"
	MsgRegisterSuccess   = "Registered successfully! You can now log in"
	MsgRegisterFailed    = "Registration failed, please try again"
	MsgLogoutSuccess     = "Logged out successfully"
	MsgSessionExpired    = "Session expired, please log in again"
	MsgLoginRequired     = "Please log in to continue"
	MsgRequiredFields    = "Please fill in all required fields"
	MsgInvalidNumber     = "Please enter a valid number in: %s"
	MsgOutOfRange        = "%s must be between %d and %d"
	MsgInvalidFormat     = "Invalid format in: %s"
	MsgInvalidChoice     = "Please choose a valid option in: %s"
	MsgMealAdded         = "Meal added successfully"
	MsgMealAddFailed     = "Error adding meal. Please try again."
	MsgHealthLogAdded    = "Health log added successfully"
	MsgHealthLogFailed   = "Error adding health log. Please try again."
	MsgSleepAdded        = "Sleep data added successfully"
	MsgSleepFailed       = "Error adding sleep data. Please try again."
	MsgFoodsLoadFailed   = "Error loading foods"
	MsgSelectFood        = "Select a food"
	MsgFoodOption        = "%s (%s calories)"
	MsgLoading           = "Loading..."
	MsgTodaysMeals       = "Today's meals"
	MsgNoMealsToday      = "No meals for today."
	MsgAddMeal           = "Add a meal"
	MsgNoNotes           = "No notes"
	MsgMealsLoadFailed   = "Error loading meals."
	MsgHealthTrends      = "Health trends"
	MsgNoHealthData      = "No health data available."
	MsgAddHealthLog      = "Add a health log"
	MsgTrendsLoadFailed  = "Error loading health trends."
	MsgAvgPhysical       = "Average physical feeling"
	MsgAvgMental         = "Average mental feeling"
	MsgPhysicalFeeling   = "Physical feeling"
	MsgMentalFeeling     = "Mental feeling"
	MsgFoodInsights      = "Food insights"
	MsgNotEnoughData     = "Not enough data for insights. Keep logging meals and health records to discover correlations."
	MsgInsightsFailed    = "Error loading insights. Please try again later."
	MsgTryAgain          = "Try again"
	MsgDaysAnalyzed      = "Based on %d days of data"
	MsgNoMealsFound      = "No meals found"
	MsgColDate           = "Date"
	MsgColFeeling        = "Feeling"
	MsgColFoodsBefore    = "Foods eaten the day before"
	MsgHistoryLoadFailed = "Could not load meal history"
	MsgReload            = "Reload"
	MsgGrams             = "%s g"
	MsgMealUpdated       = "Meal updated"
	MsgMealUpdateFailed  = "Error updating meal"
	MsgMealDeleted       = "Meal deleted"
	MsgMealDeleteFailed  = "Error deleting meal"
	MsgConfirmDelete     = "Are you sure you want to delete this meal?"
	MsgLinkSent          = "Link sent"
	MsgInvalidEmail      = "Invalid email address"
	MsgInvalidExpiration = "Invalid expiration date"
	MsgShareFailed       = "Error sharing meals"
	MsgExported          = "Exported %d meals to %s"
	MsgExportFailed      = "Export failed"
	MsgAnalyzeFailed     = "Error analyzing meals"
	MsgCopied            = "Link copied to clipboard"
	MsgSleepAnalysis     = "Sleep analysis"
	MsgAvgDuration       = "Average duration"
	MsgAvgQuality        = "Average quality"
	MsgAvgEnergy         = "Average energy"
	MsgSleepLoadFailed   = "Error loading sleep analysis."
	MsgPossibleTriggers  = "Possible triggers"
	MsgNoTriggers        = "No triggers found"
	MsgTriggersFailed    = "Error loading symptom triggers."
	MsgMealsColumn       = "Meals"

	MsgBreakfast = "Breakfast"
	MsgLunch     = "Lunch"
	MsgDinner    = "Dinner"
	MsgSnack     = "Snack"

	MsgStoolHard     = "Hard"
	MsgStoolNormal   = "Normal"
	MsgStoolSoft     = "Soft"
	MsgStoolDiarrhea = "Diarrhea"

	MsgPageLogin     = "Login"
	MsgPageRegister  = "Register"
	MsgPageDashboard = "Dashboard"
	MsgPageMealForm  = "Add meal"
	MsgPageHealthLog = "Health log"
	MsgPageSleep     = "Sleep"
	MsgPageHistory   = "Meal history"
	MsgPageInsights  = "Insights"

	MsgFieldUsername  = "Username"
	MsgFieldEmail     = "Email"
	MsgFieldPassword  = "Password"
	MsgFieldPassword2 = "Confirm password"
	MsgFieldDate      = "Date"
	MsgFieldTime      = "Time"
	MsgFieldMealType  = "Meal type"
	MsgFieldFood      = "Food"
	MsgFieldAmount    = "Amount (g)"
	MsgFieldFoodNotes = "Food notes"
	MsgFieldNotes     = "Notes"
	MsgFieldPhysical  = "Physical feeling (1-5)"
	MsgFieldMental    = "Mental feeling (1-5)"
	MsgFieldStool     = "Stool quality"
	MsgFieldStoolCnt  = "Stool count"
	MsgFieldSymptoms  = "Symptoms"
	MsgFieldWeight    = "Weight (kg)"
	MsgFieldDuration  = "Duration (hours)"
	MsgFieldQuality   = "Sleep quality (1-5)"
	MsgFieldWakeEase  = "Wake-up ease (1-5)"
	MsgFieldEnergy    = "Energy level (1-5)"
	MsgFieldFirstName = "First name"
	MsgFieldLastName  = "Last name"
	MsgFieldFrom      = "From date"
	MsgFieldTo        = "To date"
	MsgFieldSearch    = "Search food"
	MsgFieldRecipient = "Recipient email"
	MsgFieldExpires   = "Expiration date"

	MsgTotalMeals   = "Total meals"
	MsgAvgPerDay    = "Average per day"
	MsgTopFoods     = "Top foods"
	MsgColCount     = "Times"
	MsgPageOf       = "Page %d of %d"
	MsgShowingMeals = "Showing %d of %d meals"
	MsgFilterLabel  = "Filter: %s"
	MsgAllMeals     = "All meals"
	MsgLoggedInAs   = "Logged in as %s"
	MsgNotLoggedIn  = "Not logged in"
	MsgShareLink    = "Share link: %s"
	MsgSave         = "Save"
	MsgConfirmKeys  = "Press y to confirm or n to cancel"
	MsgHours        = "%s hours"
	MsgPageHelp     = "Help"
	MsgLogout       = "Logout"
	MsgEditMeal     = "Edit meal"
	MsgShareMeals   = "Share meals"
	MsgExportMeals  = "Export meals"
	MsgExportPath   = "File (.csv or .pdf)"
	MsgFilterDates  = "Filter by date"
)

var hebrew = map[string]string{
	MsgLoginSuccess:      "התחברת בהצלחה!",
	MsgLoginFailed:       "שגיאה בהתחברות, נסה שוב",
	MsgPasswordMismatch:  "הסיסמאות אינן תואמות",
	MsgRegisterSuccess:   "נרשמת בהצלחה! כעת באפשרותך להתחבר",
	MsgRegisterFailed:    "שגיאה בהרשמה, נסה שוב",
	MsgLogoutSuccess:     "התנתקת בהצלחה",
	MsgSessionExpired:    "פג תוקף ההתחברות, נא להתחבר מחדש",
	MsgLoginRequired:     "נא להתחבר כדי להמשיך",
	MsgRequiredFields:    "נא למלא את כל השדות הנדרשים",
	MsgInvalidNumber:     "נא להזין מספר תקין בשדה: %s",
	MsgOutOfRange:        "%s חייב להיות בין %d ל-%d",
	MsgInvalidFormat:     "פורמט לא תקין בשדה: %s",
	MsgInvalidChoice:     "נא לבחור אפשרות תקינה בשדה: %s",
	MsgMealAdded:         "הארוחה נוספה בהצלחה",
	MsgMealAddFailed:     "שגיאה בהוספת ארוחה. נסה שוב.",
	MsgHealthLogAdded:    "רשומת הבריאות נוספה בהצלחה",
	MsgHealthLogFailed:   "שגיאה בהוספת רשומת בריאות. נסה שוב.",
	MsgSleepAdded:        "נתוני השינה נוספו בהצלחה",
	MsgSleepFailed:       "שגיאה בהוספת נתוני שינה. נסה שוב.",
	MsgFoodsLoadFailed:   "שגיאה בטעינת מזונות",
	MsgSelectFood:        "בחר מזון",
	MsgFoodOption:        "%s (%s קלוריות)",
	MsgLoading:           "טוען...",
	MsgTodaysMeals:       "ארוחות היום",
	MsgNoMealsToday:      "אין ארוחות להיום.",
	MsgAddMeal:           "הוסף ארוחה",
	MsgNoNotes:           "אין הערות",
	MsgMealsLoadFailed:   "שגיאה בטעינת ארוחות.",
	MsgHealthTrends:      "מגמות בריאות",
	MsgNoHealthData:      "אין נתוני בריאות זמינים.",
	MsgAddHealthLog:      "הוסף רשומת בריאות",
	MsgTrendsLoadFailed:  "שגיאה בטעינת מגמות בריאות.",
	MsgAvgPhysical:       "ממוצע הרגשה פיזית",
	MsgAvgMental:         "ממוצע הרגשה נפשית",
	MsgPhysicalFeeling:   "הרגשה פיזית",
	MsgMentalFeeling:     "הרגשה נפשית",
	MsgFoodInsights:      "תובנות תזונה",
	MsgNotEnoughData:     "אין מספיק נתונים לתובנות. המשך לתעד ארוחות ורשומות בריאות כדי לגלות קשרים.",
	MsgInsightsFailed:    "שגיאה בטעינת תובנות. נסה שוב מאוחר יותר.",
	MsgTryAgain:          "נסה שוב",
	MsgDaysAnalyzed:      "מבוסס על %d ימי נתונים",
	MsgNoMealsFound:      "לא נמצאו ארוחות",
	MsgColDate:           "תאריך",
	MsgColFeeling:        "הרגשה",
	MsgColFoodsBefore:    "מזונות שנאכלו ביום הקודם",
	MsgHistoryLoadFailed: "לא ניתן לטעון את היסטוריית הארוחות",
	MsgReload:            "טען מחדש",
	MsgGrams:             "%s גרם",
	MsgMealUpdated:       "הארוחה עודכנה",
	MsgMealUpdateFailed:  "שגיאה בעדכון הארוחה",
	MsgMealDeleted:       "הארוחה נמחקה",
	MsgMealDeleteFailed:  "שגיאה במחיקת הארוחה",
	MsgConfirmDelete:     "האם אתה בטוח שברצונך למחוק את הארוחה?",
	MsgLinkSent:          "הקישור נשלח",
	MsgInvalidEmail:      "כתובת אימייל לא תקינה",
	MsgInvalidExpiration: "תאריך תפוגה לא תקין",
	MsgShareFailed:       "שגיאה בשיתוף הארוחות",
	MsgExported:          "%d ארוחות יוצאו אל %s",
	MsgExportFailed:      "הייצוא נכשל",
	MsgAnalyzeFailed:     "שגיאה בניתוח הארוחות",
	MsgCopied:            "הקישור הועתק ללוח",
	MsgSleepAnalysis:     "ניתוח שינה",
	MsgAvgDuration:       "משך ממוצע",
	MsgAvgQuality:        "איכות ממוצעת",
	MsgAvgEnergy:         "אנרגיה ממוצעת",
	MsgSleepLoadFailed:   "שגיאה בטעינת ניתוח השינה.",
	MsgPossibleTriggers:  "טריגרים אפשריים",
	MsgNoTriggers:        "לא נמצאו טריגרים",
	MsgTriggersFailed:    "שגיאה בטעינת טריגרים לתסמינים.",
	MsgMealsColumn:       "ארוחות",

	MsgBreakfast: "ארוחת בוקר",
	MsgLunch:     "ארוחת צהריים",
	MsgDinner:    "ארוחת ערב",
	MsgSnack:     "ארוחת ביניים",

	MsgStoolHard:     "קשה",
	MsgStoolNormal:   "תקין",
	MsgStoolSoft:     "רך",
	MsgStoolDiarrhea: "שלשול",

	MsgPageLogin:     "התחברות",
	MsgPageRegister:  "הרשמה",
	MsgPageDashboard: "לוח בקרה",
	MsgPageMealForm:  "הוספת ארוחה",
	MsgPageHealthLog: "רשומת בריאות",
	MsgPageSleep:     "שינה",
	MsgPageHistory:   "היסטוריית ארוחות",
	MsgPageInsights:  "תובנות",

	MsgFieldUsername:  "שם משתמש",
	MsgFieldEmail:     "אימייל",
	MsgFieldPassword:  "סיסמה",
	MsgFieldPassword2: "אימות סיסמה",
	MsgFieldTime:      "שעה",
	MsgFieldMealType:  "סוג ארוחה",
	MsgFieldFood:      "מזון",
	MsgFieldAmount:    "כמות (גרם)",
	MsgFieldFoodNotes: "הערות למזון",
	MsgFieldNotes:     "הערות",
	MsgFieldPhysical:  "הרגשה פיזית (1-5)",
	MsgFieldMental:    "הרגשה נפשית (1-5)",
	MsgFieldStool:     "איכות יציאה",
	MsgFieldStoolCnt:  "מספר יציאות",
	MsgFieldSymptoms:  "תסמינים",
	MsgFieldWeight:    "משקל (ק\"ג)",
	MsgFieldDuration:  "משך (שעות)",
	MsgFieldQuality:   "איכות שינה (1-5)",
	MsgFieldWakeEase:  "קלות התעוררות (1-5)",
	MsgFieldEnergy:    "רמת אנרגיה (1-5)",
	MsgFieldFirstName: "שם פרטי",
	MsgFieldLastName:  "שם משפחה",
	MsgFieldFrom:      "מתאריך",
	MsgFieldTo:        "עד תאריך",
	MsgFieldSearch:    "חיפוש מזון",
	MsgFieldRecipient: "אימייל הנמען",
	MsgFieldExpires:   "תאריך תפוגה",

	MsgTotalMeals:   "סה\"כ ארוחות",
	MsgAvgPerDay:    "ממוצע ליום",
	MsgTopFoods:     "מזונות מובילים",
	MsgColCount:     "פעמים",
	MsgPageOf:       "עמוד %d מתוך %d",
	MsgShowingMeals: "מוצגות %d מתוך %d ארוחות",
	MsgFilterLabel:  "סינון: %s",
	MsgAllMeals:     "כל הארוחות",
	MsgLoggedInAs:   "מחובר בתור %s",
	MsgNotLoggedIn:  "לא מחובר",
	MsgShareLink:    "קישור לשיתוף: %s",
	MsgSave:         "שמור",
	MsgConfirmKeys:  "הקש y לאישור או n לביטול",
	MsgHours:        "%s שעות",
	MsgPageHelp:     "עזרה",
	MsgLogout:       "התנתקות",
	MsgEditMeal:     "עריכת ארוחה",
	MsgShareMeals:   "שיתוף ארוחות",
	MsgExportMeals:  "ייצוא ארוחות",
	MsgExportPath:   "קובץ (csv או pdf)",
	MsgFilterDates:  "סינון לפי תאריך",
}
