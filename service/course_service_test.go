package service

import (
	"context"
	"errors"
	"testing"
	"training-hub-api/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockCourseRepo is a mock implementation of ICourseRepository.
type mockCourseRepo struct{ mock.Mock }

func (m *mockCourseRepo) CreateCourse(course *model.Course) error {
	args := m.Called(course)
	return args.Error(0)
}

func (m *mockCourseRepo) GetAllCourses() ([]*model.Course, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Course), args.Error(1)
}

func (m *mockCourseRepo) GetCourseByID(id int) (*model.Course, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCourseService_ListCourses_CacheAside(t *testing.T) {
	mockRepo := new(mockCourseRepo)
	rdb := newTestRedis(t)
	courseService := NewCourseService(mockRepo, rdb)

	courses := []*model.Course{{ID: 1, Title: "Intro to Go", TeacherID: 2}}

	// First call misses the cache and hits the repository.
	mockRepo.On("GetAllCourses").Return(courses, nil).Once()

	got, err := courseService.ListCourses(context.Background())
	assert.NoError(t, err)
	assert.Len(t, got, 1)

	cached, err := rdb.Get(context.Background(), courseListCacheKey).Result()
	assert.NoError(t, err)
	assert.NotEmpty(t, cached)

	// Second call is served from the cache; the repository is not consulted.
	got, err = courseService.ListCourses(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Intro to Go", got[0].Title)
	mockRepo.AssertNumberOfCalls(t, "GetAllCourses", 1)
}

func TestCourseService_CreateCourse_InvalidatesCache(t *testing.T) {
	mockRepo := new(mockCourseRepo)
	rdb := newTestRedis(t)
	courseService := NewCourseService(mockRepo, rdb)

	rdb.Set(context.Background(), courseListCacheKey, `[]`, 0)

	mockRepo.On("CreateCourse", mock.MatchedBy(func(c *model.Course) bool {
		return c.Title == "Algorithms" && c.TeacherID == 5
	})).Return(nil).Once()

	_, err := courseService.CreateCourse(5, model.CreateCourseRequest{Title: "Algorithms"})
	assert.NoError(t, err)

	_, err = rdb.Get(context.Background(), courseListCacheKey).Result()
	assert.Equal(t, redis.Nil, err, "cache must be invalidated after a create")
	mockRepo.AssertExpectations(t)
}

func TestCourseService_CreateCourse_RepoError(t *testing.T) {
	mockRepo := new(mockCourseRepo)
	courseService := NewCourseService(mockRepo, newTestRedis(t))

	expectedErr := errors.New("db error")
	mockRepo.On("CreateCourse", mock.Anything).Return(expectedErr).Once()

	_, err := courseService.CreateCourse(5, model.CreateCourseRequest{Title: "Algorithms"})
	assert.ErrorIs(t, err, expectedErr)
}
