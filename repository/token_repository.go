// file: repository/token_repository.go

package repository

import (
	"database/sql"
	"time"
	"training-hub-api/logger"
	"training-hub-api/model"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token database operations.
type ITokenRepository interface {
	Create(token *model.RefreshToken) error
	Rotate(oldHash, newHash string, newExpiresAt time.Time) (*model.RefreshToken, error)
	RevokeByUserID(userID int) error
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create inserts a new refresh token record into the database.
func (r *TokenRepository) Create(token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.DB.QueryRow(query, token.UserID, token.TokenHash, token.ExpiresAt).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// Rotate revokes the record matching oldHash and inserts the replacement in a
// single statement. The update only touches a live (non-revoked, unexpired)
// row, so when two requests race on the same secret exactly one gets the new
// record back; the other sees sql.ErrNoRows, the same as presenting an
// already-revoked token.
func (r *TokenRepository) Rotate(oldHash, newHash string, newExpiresAt time.Time) (*model.RefreshToken, error) {
	query := `
		WITH rotated AS (
			UPDATE refresh_tokens
			SET revoked = TRUE
			WHERE token_hash = $1 AND NOT revoked AND expires_at > NOW()
			RETURNING user_id
		)
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		SELECT user_id, $2, $3 FROM rotated
		RETURNING id, user_id, created_at`

	token := &model.RefreshToken{TokenHash: newHash, ExpiresAt: newExpiresAt}
	err := r.DB.QueryRow(query, oldHash, newHash, newExpiresAt).Scan(&token.ID, &token.UserID, &token.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute rotate refresh token query")
		}
		return nil, err // sql.ErrNoRows: stale, revoked, expired, or lost the race
	}
	return token, nil
}

// RevokeByUserID revokes all live refresh tokens for a user. Used on logout.
func (r *TokenRepository) RevokeByUserID(userID int) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to revoke all refresh tokens for a user")

	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND NOT revoked`
	_, err := r.DB.Exec(query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute revoke refresh tokens query")
		return err
	}
	return nil
}
