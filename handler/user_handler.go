package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"training-hub-api/common"
	"training-hub-api/logger"
	"training-hub-api/model"
	"training-hub-api/service"

	"github.com/sirupsen/logrus"
)

// UserHandler serves the admin user-management endpoints.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns all users. Admin only.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.userService.ListUsers()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve users", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(users)
	return nil
}

// UpdateUserRole changes a user's role. Admin only.
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	targetID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user ID", nil)
	}

	var req model.UpdateUserRoleRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	logger.Log.WithFields(logrus.Fields{
		"target_user_id": targetID,
		"new_role":       req.Role,
	}).Info("Update user role request received")

	if err := h.userService.UpdateUserRole(targetID, req.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update user role", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
