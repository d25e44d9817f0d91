package model

// AIUsageCounter tracks how many times a user has invoked a metered AI feature
// within one UTC calendar day. One row per (user, day, feature); the count only
// grows for the remainder of that day, a fresh row starts the next one.
type AIUsageCounter struct {
	ID      int    `json:"id"`
	UserID  int    `json:"user_id"`
	Day     string `json:"day"` // YYYY-MM-DD, UTC
	Feature string `json:"feature"`
	Count   int    `json:"count"`
}
