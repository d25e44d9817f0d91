package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"training-hub-api/common"
	"training-hub-api/logger"
	"training-hub-api/model"
	"training-hub-api/service"
)

// AuthHandler serves the session endpoints: register, login, refresh, logout.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerResponse struct {
	User   *model.User        `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// Register creates a new STUDENT user and signs them in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, tokens, err := h.authService.Register(req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return common.NewAppError(http.StatusBadRequest, "Email is already registered", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not create user", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(registerResponse{User: user, Tokens: tokens})
	return nil
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	_, tokens, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid email or password", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tokens)
	return nil
}

// Refresh rotates the refresh token and returns a new pair. A stale, revoked,
// or raced secret comes back as an authentication failure: the caller must
// log in again.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return common.NewAppError(http.StatusUnauthorized, "Refresh token is invalid or expired", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh session", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tokens)
	return nil
}

// Logout revokes the caller's refresh tokens.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.authService.Logout(userID); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not log out", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
