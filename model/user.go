package model

import "time"

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// IsQuotaExempt reports whether the role bypasses the daily AI quota.
func (r Role) IsQuotaExempt() bool {
	return r == RoleAdmin || r == RoleTeacher
}

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
