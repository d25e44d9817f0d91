package router

import (
	"net/http"
	"training-hub-api/handler"
	"training-hub-api/model"
)

// NewRouter wires every route behind the shared middleware chain: request ID,
// then origin admission, then (for /api routes) access token verification.
func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	courseHandler *handler.CourseHandler,
	aiHandler *handler.AIHandler,
	authMiddleware func(http.Handler) http.Handler,
	corsRules []string,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Session endpoints. Refresh is deliberately outside the auth middleware:
	// its credential is the refresh secret, not an access token.
	mux.Handle("POST /register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /api/token/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))

	mux.Handle("POST /api/logout", authMiddleware(
		handler.ErrorHandlingMiddleware(authHandler.Logout)))

	// Courses.
	mux.Handle("GET /api/courses", authMiddleware(
		handler.ErrorHandlingMiddleware(courseHandler.ListCourses)))
	mux.Handle("GET /api/courses/{id}", authMiddleware(
		handler.ErrorHandlingMiddleware(courseHandler.GetCourse)))
	mux.Handle("POST /api/courses", authMiddleware(
		handler.RequireRoles(model.RoleTeacher, model.RoleAdmin)(
			handler.ErrorHandlingMiddleware(courseHandler.CreateCourse))))

	// Metered AI features.
	mux.Handle("POST /api/ai/essay-feedback", authMiddleware(
		handler.ErrorHandlingMiddleware(aiHandler.EssayFeedback)))

	// Admin.
	mux.Handle("GET /api/admin/users", authMiddleware(
		handler.AdminMiddleware(
			handler.ErrorHandlingMiddleware(userHandler.ListUsers))))
	mux.Handle("PUT /api/admin/users/{id}/role", authMiddleware(
		handler.AdminMiddleware(
			handler.ErrorHandlingMiddleware(userHandler.UpdateUserRole))))

	var root http.Handler = mux
	root = handler.NewCORSMiddleware(corsRules)(root)
	root = handler.RequestIDMiddleware(root)
	return root
}
