package handler

import (
	"context"
	"net/http"
	"strings"
	"training-hub-api/common"
	"training-hub-api/model"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UserRoleKey contextKey = "userRole"
)

// NewAuthMiddleware verifies the Bearer access token and stashes the caller's
// identity in the request context. The signing key is captured once at wiring
// time.
func NewAuthMiddleware(jwtKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				err := common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
				err.Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				err := common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
				err.Send(w)
				return
			}

			tokenString := headerParts[1]
			claims := &model.AppClaims{}

			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return jwtKey, nil
			})

			if err != nil || !token.Valid {
				appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err)
				appErr.Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles rejects requests whose authenticated role is not in the list.
func RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(UserRoleKey).(string)
			if !ok {
				err := common.NewAppError(http.StatusForbidden, "Access denied.", nil)
				err.Send(w)
				return
			}

			for _, allowed := range roles {
				if model.Role(role) == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			err := common.NewAppError(http.StatusForbidden, "Access denied. Insufficient privileges.", nil)
			err.Send(w)
		})
	}
}

// AdminMiddleware restricts a route to ADMIN users.
func AdminMiddleware(next http.Handler) http.Handler {
	return RequireRoles(model.RoleAdmin)(next)
}
