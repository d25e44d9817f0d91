package repository

import (
	"context"
	"database/sql"
	"training-hub-api/logger"
)

// IUsageRepository defines the contract for AI usage counter operations.
type IUsageRepository interface {
	IncrementAndGet(ctx context.Context, userID int, day, feature string) (int, error)
}

// UsageRepository implements IUsageRepository.
type UsageRepository struct {
	DB *sql.DB
}

func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{DB: db}
}

// IncrementAndGet bumps the counter for (user, day, feature) and returns the
// post-increment value, creating the row at 1 on first use. The upsert is one
// statement so concurrent callers observe a strict order of counts; there is
// no window where two requests read the same pre-increment value.
func (r *UsageRepository) IncrementAndGet(ctx context.Context, userID int, day, feature string) (int, error) {
	query := `
		INSERT INTO ai_usage_counters (user_id, day, feature, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (user_id, day, feature)
		DO UPDATE SET count = ai_usage_counters.count + 1
		RETURNING count`

	var count int
	err := r.DB.QueryRowContext(ctx, query, userID, day, feature).Scan(&count)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute usage counter increment query")
		return 0, err
	}
	return count, nil
}
