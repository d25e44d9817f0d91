package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateAndDecode decodes the JSON body into payload and checks its
// validation tags. On failure it writes the rejection itself and returns
// false; the handler should simply return.
func ValidateAndDecode(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		NewAppError(http.StatusBadRequest, "Invalid request body", nil).Send(w)
		return false
	}

	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				fields = append(fields, fe.Namespace())
			}
			NewAppError(http.StatusBadRequest, "Request validation failed", nil).
				WithDetails(map[string]interface{}{"fields": fields}).
				Send(w)
			return false
		}
		NewAppError(http.StatusBadRequest, "Request validation failed", nil).Send(w)
		return false
	}

	return true
}
