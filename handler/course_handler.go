package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"training-hub-api/common"
	"training-hub-api/logger"
	"training-hub-api/model"
	"training-hub-api/service"

	"github.com/sirupsen/logrus"
)

type CourseHandler struct {
	service *service.CourseService
}

func NewCourseHandler(service *service.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// CreateCourse handles the request to create a new course.
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateCourseRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"title":   req.Title,
	})
	log.Info("Create course request received")

	course, err := h.service.CreateCourse(userID, req)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create course", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(course)
	return nil
}

// ListCourses returns the course catalogue.
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) *common.AppError {
	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve courses", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(courses)
	return nil
}

// GetCourse returns a single course by ID.
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid course ID", nil)
	}

	course, err := h.service.GetCourse(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, "Course not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve course", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(course)
	return nil
}
