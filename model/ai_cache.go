package model

import "time"

// AIResponseCacheEntry caches a successful AI provider response, keyed by a
// content digest of the normalized inputs. Rows past ExpiresAt are treated as
// absent even before any physical cleanup runs.
type AIResponseCacheEntry struct {
	ID        int       `json:"id"`
	Key       string    `json:"key"`
	Feature   string    `json:"feature"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Response  string    `json:"response"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
