// file: model/token.go

package model

import "time"

// RefreshToken holds the data for a refresh token in the database.
// Only the SHA-256 digest of the opaque secret is ever stored; the raw secret
// lives solely in the client's hands.
type RefreshToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
