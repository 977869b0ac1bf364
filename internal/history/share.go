package history

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"htrack/internal/api"
	"htrack/internal/forms"
	"htrack/internal/i18n"
	"htrack/internal/logging"
	"htrack/internal/nav"

	"go.uber.org/zap"
)

// Share field names, used in validation errors.
const (
	FieldRecipient  = "recipient_email"
	FieldExpiration = "expiration_date"
)

// ShareRequest validates the recipient and expiration and builds the share
// payload for the currently filtered meals. The expiration is YYYY-MM-DD and
// may not be before today.
func (h *History) ShareRequest(email, expiration string) (api.ShareRequest, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return api.ShareRequest{}, &forms.ValidationError{Invalid: []string{FieldRecipient}, Message: h.msgs.T(i18n.MsgInvalidEmail)}
	}

	expiration = strings.TrimSpace(expiration)
	exp, err := time.ParseInLocation("2006-01-02", expiration, h.opts.Location)
	today := h.opts.Now().In(h.opts.Location).Format("2006-01-02")
	if err != nil || exp.Format("2006-01-02") < today {
		return api.ShareRequest{}, &forms.ValidationError{Invalid: []string{FieldExpiration}, Message: h.msgs.T(i18n.MsgInvalidExpiration)}
	}

	meals := h.Filtered()
	ids := make([]int, len(meals))
	for i, m := range meals {
		ids[i] = m.ID
	}
	return api.ShareRequest{RecipientEmail: email, ExpirationDate: expiration, MealIDs: ids}, nil
}

// Share sends the filtered meals to a provider and returns the share link.
// The list state is not touched.
func (h *History) Share(ctx context.Context, email, expiration string) (string, nav.Alert, error) {
	req, err := h.ShareRequest(email, expiration)
	if err != nil {
		return "", nav.Failure(err.Error()), err
	}
	res, err := h.api.ShareMeals(ctx, req)
	if err != nil {
		h.logger.Warn("sharing meals", zap.Error(err))
		return "", nav.Failure(h.msgs.T(i18n.MsgShareFailed)), fmt.Errorf("share meals: %w", err)
	}
	h.logger.Info("meals shared", zap.Int("meals", len(req.MealIDs)), zap.String("expires", req.ExpirationDate))
	h.opts.Audit.Record(logging.AuditMealsShared,
		zap.String("recipient", req.RecipientEmail),
		zap.Ints("meal_ids", req.MealIDs),
		zap.String("expires", req.ExpirationDate))
	return res.ShareURL, nav.Success(h.msgs.T(i18n.MsgLinkSent)), nil
}
