package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"courseware/internal/cache"
	apperrors "courseware/internal/errors"
	"courseware/internal/model"
	"courseware/internal/repository"
)

// CourseInput carries the writable course fields. The slug is never taken
// from the client; it is re-derived from the title on every save.
type CourseInput struct {
	Title       string
	Description string
	CategoryID  *uint
}

// CourseService exposes CRUD over courses.
type CourseService interface {
	Create(ctx context.Context, input CourseInput) (*model.Course, error)
	Get(ctx context.Context, id uint) (*model.Course, error)
	List(ctx context.Context, filter repository.CourseFilter) ([]model.Course, error)
	Update(ctx context.Context, id uint, input CourseInput) (*model.Course, error)
	Delete(ctx context.Context, id uint) error
}

type courseService struct {
	repo  repository.CourseRepository
	cache *cache.Client
}

// NewCourseService builds a CourseService with repository and cache.
func NewCourseService(repo repository.CourseRepository, cache *cache.Client) CourseService {
	return &courseService{repo: repo, cache: cache}
}

func (s *courseService) cacheKey(id uint) string {
	return fmt.Sprintf("course:%d", id)
}

func (s *courseService) Create(ctx context.Context, input CourseInput) (*model.Course, error) {
	course := &model.Course{
		Title:       input.Title,
		Slug:        slug.Make(input.Title),
		Description: input.Description,
		CategoryID:  input.CategoryID,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (*model.Course, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Course
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(course); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, contentCacheTTL)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, filter repository.CourseFilter) ([]model.Course, error) {
	return s.repo.List(ctx, filter)
}

func (s *courseService) Update(ctx context.Context, id uint, input CourseInput) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}

	course.Title = input.Title
	course.Slug = slug.Make(input.Title)
	course.Description = input.Description
	course.CategoryID = input.CategoryID

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
