package handler

import (
	"net/http"
	"training-hub-api/common"
)

// ErrorHandlingMiddleware adapts handlers that return *common.AppError into
// plain http.HandlerFunc, translating the error at a single boundary.
func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}
