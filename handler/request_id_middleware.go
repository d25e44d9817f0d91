package handler

import (
	"net/http"
	"training-hub-api/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDMiddleware tags every request with an ID so log lines from one
// request can be correlated. An inbound X-Request-ID is honored.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger.Log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Info("Request received")

		next.ServeHTTP(w, r)
	})
}
