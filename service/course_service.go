// file: service/course_service.go

package service

import (
	"context"
	"encoding/json"
	"time"
	"training-hub-api/model"
	"training-hub-api/repository"

	"github.com/redis/go-redis/v9"
)

const (
	courseListCacheKey = "courses:all"
	courseListCacheTTL = 10 * time.Minute
)

// CourseService handles course business logic with a cache-aside Redis layer
// in front of the listing query.
type CourseService struct {
	repo        repository.ICourseRepository
	redisClient *redis.Client
}

func NewCourseService(repo repository.ICourseRepository, redisClient *redis.Client) *CourseService {
	return &CourseService{
		repo:        repo,
		redisClient: redisClient,
	}
}

// CreateCourse saves the course and invalidates the listing cache.
func (s *CourseService) CreateCourse(teacherID int, req model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   teacherID,
	}

	if err := s.repo.CreateCourse(course); err != nil {
		return nil, err
	}

	s.redisClient.Del(context.Background(), courseListCacheKey)

	return course, nil
}

// ListCourses serves the catalogue, cache first, database on a miss.
func (s *CourseService) ListCourses(ctx context.Context) ([]*model.Course, error) {
	cached, err := s.redisClient.Get(ctx, courseListCacheKey).Result()
	if err == nil {
		var courses []*model.Course
		if err := json.Unmarshal([]byte(cached), &courses); err == nil {
			return courses, nil
		}
	}

	courses, err := s.repo.GetAllCourses()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(courses); err == nil {
		s.redisClient.Set(ctx, courseListCacheKey, data, courseListCacheTTL)
	}

	return courses, nil
}

// GetCourse fetches a single course. Not cached; individual reads are cheap.
func (s *CourseService) GetCourse(id int) (*model.Course, error) {
	return s.repo.GetCourseByID(id)
}
