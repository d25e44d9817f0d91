package repository

import (
	"database/sql"
	"training-hub-api/logger"
	"training-hub-api/model"
)

// ICourseRepository defines the contract for course database operations.
type ICourseRepository interface {
	CreateCourse(course *model.Course) error
	GetAllCourses() ([]*model.Course, error)
	GetCourseByID(id int) (*model.Course, error)
}

type CourseRepository struct {
	DB *sql.DB
}

func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) CreateCourse(course *model.Course) error {
	query := `INSERT INTO courses (title, description, teacher_id) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.DB.QueryRow(query, course.Title, course.Description, course.TeacherID).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute create course query")
		return err
	}
	return nil
}

func (r *CourseRepository) GetAllCourses() ([]*model.Course, error) {
	query := `SELECT id, title, description, teacher_id, created_at FROM courses ORDER BY created_at DESC`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*model.Course
	for rows.Next() {
		course := &model.Course{}
		if err := rows.Scan(&course.ID, &course.Title, &course.Description, &course.TeacherID, &course.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) GetCourseByID(id int) (*model.Course, error) {
	course := &model.Course{}
	query := `SELECT id, title, description, teacher_id, created_at FROM courses WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&course.ID, &course.Title, &course.Description, &course.TeacherID, &course.CreatedAt)
	if err != nil {
		return nil, err
	}
	return course, nil
}
