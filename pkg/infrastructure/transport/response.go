package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/domain/service"
)

var (
	errBadRequest     = errors.New("malformed request")
	errInvalidID      = errors.New("invalid id")
	errUnauthorized   = errors.New("missing or invalid token")
	errSessionChanged = errors.New("token does not belong to the active session")
	errRateLimited    = errors.New("too many requests")
)

// response is the envelope every endpoint answers with.
type response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Data    any      `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("write response")
	}
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, response{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	body := response{Success: false, Message: err.Error()}

	var validation *service.ValidationError
	if errors.As(err, &validation) {
		body.Errors = validation.Messages
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		body.Message = "internal error"
	}
	writeJSON(w, status, body)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errUnauthorized),
		errors.Is(err, errSessionChanged),
		errors.Is(err, service.ErrNoSession),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrCapabilityDenied),
		errors.Is(err, service.ErrAccountLocked),
		errors.Is(err, service.ErrNotOrderOwner):
		return http.StatusForbidden

	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrRequestNotFound),
		errors.Is(err, model.ErrAccountNotFound),
		errors.Is(err, model.ErrOrderNotFound),
		errors.Is(err, model.ErrOrderItemNotFound),
		errors.Is(err, model.ErrMealKitNotFound),
		errors.Is(err, model.ErrIngredientNotFound),
		errors.Is(err, model.ErrAlertNotFound),
		errors.Is(err, model.ErrFarmNotFound),
		errors.Is(err, model.ErrMarketPriceNotFound),
		errors.Is(err, model.ErrPostNotFound),
		errors.Is(err, model.ErrNotificationNotFound):
		return http.StatusNotFound

	case errors.Is(err, model.ErrEmailTaken),
		errors.Is(err, model.ErrOptimisticLock),
		errors.Is(err, model.ErrOrderCannotBeModified),
		errors.Is(err, service.ErrRequestClosed),
		errors.Is(err, service.ErrAccountNotBanned):
		return http.StatusConflict

	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests

	case errors.Is(err, errBadRequest),
		errors.Is(err, errInvalidID),
		errors.Is(err, model.ErrUnknownRole),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrUnsupportedRole),
		errors.Is(err, service.ErrAccountNameRequired),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrProductNameMissing),
		errors.Is(err, service.ErrReasonRequired),
		errors.Is(err, service.ErrConfirmationRequired),
		errors.Is(err, service.ErrSubmissionIncomplete),
		errors.Is(err, service.ErrAlertIncomplete),
		errors.Is(err, service.ErrInvalidSeverity),
		errors.Is(err, service.ErrInvalidChange),
		errors.Is(err, service.ErrPriceEntryIncomplete),
		errors.Is(err, service.ErrInvalidTrend),
		errors.Is(err, service.ErrPostIncomplete),
		errors.Is(err, service.ErrIngredientRequired),
		errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
