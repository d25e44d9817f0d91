package common

import (
	"encoding/json"
	"net/http"
	"training-hub-api/logger"

	"github.com/sirupsen/logrus"
)

// Stable machine-readable rejection reasons. Clients switch on these, so the
// strings are part of the API contract.
const (
	ReasonAuthentication = "authentication"
	ReasonAuthorization  = "authorization"
	ReasonValidation     = "validation"
	ReasonNotFound       = "not_found"
	ReasonQuotaExceeded  = "quota_exceeded"
	ReasonUpstream       = "upstream"
	ReasonInternal       = "internal"
)

type AppError struct {
	Code    int                    `json:"code"`
	Reason  string                 `json:"reason"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError builds an AppError, deriving the machine-readable reason from
// the HTTP status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reasonForCode(code),
		Message: message,
		Err:     err,
	}
}

// WithDetails attaches rejection metadata (daily limit, feature, field paths)
// so the caller can self-correct or back off.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func reasonForCode(code int) string {
	switch code {
	case http.StatusUnauthorized:
		return ReasonAuthentication
	case http.StatusForbidden:
		return ReasonAuthorization
	case http.StatusBadRequest:
		return ReasonValidation
	case http.StatusNotFound:
		return ReasonNotFound
	case http.StatusTooManyRequests:
		return ReasonQuotaExceeded
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return ReasonUpstream
	default:
		return ReasonInternal
	}
}

// Send writes the error as a JSON response. Internal error detail is logged
// but never serialized to the client.
func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"reason":         e.Reason,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
