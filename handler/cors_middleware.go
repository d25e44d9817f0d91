package handler

import (
	"net/http"
	"training-hub-api/common"
	"training-hub-api/cors"
)

// NewCORSMiddleware admits or rejects cross-origin requests against the
// configured rule list before anything else runs. Requests without an Origin
// header (curl, server-to-server) pass through untouched.
func NewCORSMiddleware(rules []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !cors.IsAllowed(origin, rules) {
				err := common.NewAppError(http.StatusForbidden, "Origin not allowed", nil)
				err.Send(w)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
