package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"
	"training-hub-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestAICacheRepository_GetByKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAICacheRepository(db)

	t.Run("found", func(t *testing.T) {
		expiresAt := time.Now().Add(-time.Hour)
		mock.ExpectQuery("SELECT id, key, feature, provider, model, response, expires_at, created_at FROM ai_response_cache").
			WithArgs("deadbeef").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "key", "feature", "provider", "model", "response", "expires_at", "created_at"},
			).AddRow(1, "deadbeef", "essay_feedback", "openai", "gpt-4o-mini", "cached text", expiresAt, time.Now()))

		entry, err := repo.GetByKey(context.Background(), "deadbeef")

		assert.NoError(t, err)
		assert.Equal(t, "cached text", entry.Response)
		// The repository returns expired rows as-is; expiry is the service's call.
		assert.True(t, entry.ExpiresAt.Before(time.Now()))
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, key, feature, provider, model, response, expires_at, created_at FROM ai_response_cache").
			WithArgs("unknown").
			WillReturnRows(sqlmock.NewRows([]string{"id", "key", "feature", "provider", "model", "response", "expires_at", "created_at"}))

		_, err := repo.GetByKey(context.Background(), "unknown")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAICacheRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAICacheRepository(db)
	expiresAt := time.Now().Add(30 * 24 * time.Hour)

	mock.ExpectQuery("INSERT INTO ai_response_cache").
		WithArgs("deadbeef", "essay_feedback", "openai", "gpt-4o-mini", "fresh text", expiresAt).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, time.Now()))

	entry := &model.AIResponseCacheEntry{
		Key:       "deadbeef",
		Feature:   "essay_feedback",
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		Response:  "fresh text",
		ExpiresAt: expiresAt,
	}
	err = repo.Upsert(context.Background(), entry)

	assert.NoError(t, err)
	assert.Equal(t, 3, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
