package repository

import (
	"context"
	"database/sql"
	"training-hub-api/logger"
	"training-hub-api/model"
)

// IAICacheRepository defines the contract for the AI response cache store.
type IAICacheRepository interface {
	GetByKey(ctx context.Context, key string) (*model.AIResponseCacheEntry, error)
	Upsert(ctx context.Context, entry *model.AIResponseCacheEntry) error
}

// AICacheRepository implements IAICacheRepository.
type AICacheRepository struct {
	DB *sql.DB
}

func NewAICacheRepository(db *sql.DB) *AICacheRepository {
	return &AICacheRepository{DB: db}
}

// GetByKey fetches a cache row by its content digest. Expiry is not checked
// here: an expired row is still returned and the service treats it as a miss,
// keeping lookup semantics independent of physical cleanup timing.
func (r *AICacheRepository) GetByKey(ctx context.Context, key string) (*model.AIResponseCacheEntry, error) {
	entry := &model.AIResponseCacheEntry{}
	query := `SELECT id, key, feature, provider, model, response, expires_at, created_at FROM ai_response_cache WHERE key = $1`
	err := r.DB.QueryRowContext(ctx, query, key).Scan(
		&entry.ID, &entry.Key, &entry.Feature, &entry.Provider, &entry.Model,
		&entry.Response, &entry.ExpiresAt, &entry.CreatedAt,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get cache entry query")
		}
		return nil, err
	}
	return entry, nil
}

// Upsert writes the entry, overwriting any prior row for the same key in a
// single statement.
func (r *AICacheRepository) Upsert(ctx context.Context, entry *model.AIResponseCacheEntry) error {
	query := `
		INSERT INTO ai_response_cache (key, feature, provider, model, response, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key)
		DO UPDATE SET feature = EXCLUDED.feature,
		              provider = EXCLUDED.provider,
		              model = EXCLUDED.model,
		              response = EXCLUDED.response,
		              expires_at = EXCLUDED.expires_at
		RETURNING id, created_at`

	err := r.DB.QueryRowContext(ctx, query,
		entry.Key, entry.Feature, entry.Provider, entry.Model, entry.Response, entry.ExpiresAt,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute upsert cache entry query")
		return err
	}
	return nil
}
