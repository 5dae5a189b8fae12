package service

import (
	"context"
	"errors"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	apperrors "courseware/internal/errors"
	"courseware/internal/model"
	"courseware/internal/repository"
)

// LessonInput carries the writable lesson fields. CourseIDs is the full
// set of courses the lesson belongs to; updates replace the set.
type LessonInput struct {
	Title     string
	Item      int
	Position  int
	CourseIDs []uint
}

// LessonService exposes CRUD over lessons.
type LessonService interface {
	Create(ctx context.Context, input LessonInput) (*model.Lesson, error)
	Get(ctx context.Context, id uint) (*model.Lesson, error)
	List(ctx context.Context, filter repository.LessonFilter) ([]model.Lesson, error)
	Update(ctx context.Context, id uint, input LessonInput) (*model.Lesson, error)
	Delete(ctx context.Context, id uint) error
}

type lessonService struct {
	repo       repository.LessonRepository
	courseRepo repository.CourseRepository
}

// NewLessonService builds a LessonService over the lesson repository. The
// course repository backs the course-membership checks.
func NewLessonService(repo repository.LessonRepository, courseRepo repository.CourseRepository) LessonService {
	return &lessonService{repo: repo, courseRepo: courseRepo}
}

// resolveCourses loads every referenced course so an unknown id fails the
// request instead of leaving a dangling join row.
func (s *lessonService) resolveCourses(ctx context.Context, ids []uint) ([]model.Course, error) {
	courses := make([]model.Course, 0, len(ids))
	for _, id := range ids {
		course, err := s.courseRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCourseNotFound
			}
			return nil, err
		}
		courses = append(courses, *course)
	}
	return courses, nil
}

func (s *lessonService) Create(ctx context.Context, input LessonInput) (*model.Lesson, error) {
	courses, err := s.resolveCourses(ctx, input.CourseIDs)
	if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		Title:    input.Title,
		Slug:     slug.Make(input.Title),
		Item:     input.Item,
		Position: input.Position,
		Courses:  courses,
	}
	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *lessonService) Get(ctx context.Context, id uint) (*model.Lesson, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *lessonService) List(ctx context.Context, filter repository.LessonFilter) ([]model.Lesson, error) {
	return s.repo.List(ctx, filter)
}

func (s *lessonService) Update(ctx context.Context, id uint, input LessonInput) (*model.Lesson, error) {
	lesson, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	courses, err := s.resolveCourses(ctx, input.CourseIDs)
	if err != nil {
		return nil, err
	}

	lesson.Title = input.Title
	lesson.Slug = slug.Make(input.Title)
	lesson.Item = input.Item
	lesson.Position = input.Position
	lesson.Courses = courses

	if err := s.repo.Update(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *lessonService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
