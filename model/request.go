// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest carries the raw refresh secret handed out at login.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateUserRoleRequest defines the payload for updating a user's role.
type UpdateUserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=ADMIN TEACHER STUDENT"`
}

// CreateCourseRequest defines the payload for creating a course.
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

// EssayFeedbackRequest carries the student essay sent to the metered AI feature.
type EssayFeedbackRequest struct {
	Topic string `json:"topic" validate:"required,min=3,max=300"`
	Essay string `json:"essay" validate:"required,min=50,max=20000"`
}
