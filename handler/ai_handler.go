package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"training-hub-api/common"
	"training-hub-api/logger"
	"training-hub-api/model"
	"training-hub-api/service"

	"github.com/sirupsen/logrus"
)

// AIHandler serves the metered AI endpoints.
type AIHandler struct {
	aiService *service.AIService
}

func NewAIHandler(aiService *service.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// EssayFeedback runs the quota-gated, cached essay feedback feature.
func (h *AIHandler) EssayFeedback(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.EssayFeedbackRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}
	role, ok := r.Context().Value(UserRoleKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user role in token", nil)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"feature": service.FeatureEssayFeedback,
	})
	log.Info("Essay feedback request received")

	result, err := h.aiService.EssayFeedback(r.Context(), userID, role, req)
	if err != nil {
		var quotaErr *service.QuotaExceededError
		switch {
		case errors.As(err, &quotaErr):
			return common.NewAppError(http.StatusTooManyRequests, "Daily AI quota exceeded", nil).
				WithDetails(map[string]interface{}{
					"daily_limit": quotaErr.DailyLimit,
					"feature":     quotaErr.Feature,
				})
		case errors.Is(err, service.ErrUpstreamFailure):
			return common.NewAppError(http.StatusBadGateway, "AI provider is unavailable, please retry", err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not generate feedback", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
	return nil
}
