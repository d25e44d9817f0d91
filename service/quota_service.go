package service

import (
	"context"
	"fmt"
	"time"
	"training-hub-api/logger"
	"training-hub-api/model"
	"training-hub-api/repository"

	"github.com/sirupsen/logrus"
)

// QuotaStatus annotates an admitted request for downstream observability.
type QuotaStatus struct {
	Day        string `json:"day"`
	Feature    string `json:"feature"`
	Count      int    `json:"count"`
	DailyLimit int    `json:"daily_limit"`
}

// QuotaExceededError carries the limit metadata the client needs to back off.
type QuotaExceededError struct {
	Feature    string
	DailyLimit int
	Count      int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily limit of %d reached for feature %q", e.DailyLimit, e.Feature)
}

// QuotaService enforces per-user daily limits on metered AI features.
type QuotaService struct {
	usageRepo repository.IUsageRepository
	now       func() time.Time
}

func NewQuotaService(usageRepo repository.IUsageRepository) *QuotaService {
	return &QuotaService{
		usageRepo: usageRepo,
		now:       time.Now,
	}
}

// CheckAndConsume admits or rejects one quota-gated attempt. ADMIN and TEACHER
// bypass entirely; no counter row is read or written for them. For everyone
// else the counter is bumped first and checked after: a rejected attempt still
// consumes its slot, which slightly over-counts rejections but guarantees two
// concurrent requests can never both slip under the limit.
func (s *QuotaService) CheckAndConsume(ctx context.Context, userID int, role, feature string, limit int) (*QuotaStatus, error) {
	if model.Role(role).IsQuotaExempt() {
		return &QuotaStatus{Feature: feature, DailyLimit: limit}, nil
	}

	day := s.now().UTC().Format("2006-01-02")

	count, err := s.usageRepo.IncrementAndGet(ctx, userID, day, feature)
	if err != nil {
		return nil, err
	}

	if count > limit {
		logger.Log.WithFields(logrus.Fields{
			"user_id": userID,
			"feature": feature,
			"count":   count,
			"limit":   limit,
		}).Warn("Daily AI quota exceeded")
		return nil, &QuotaExceededError{Feature: feature, DailyLimit: limit, Count: count}
	}

	return &QuotaStatus{Day: day, Feature: feature, Count: count, DailyLimit: limit}, nil
}
