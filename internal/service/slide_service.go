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

// SlideInput carries the writable slide fields. The owning lesson comes
// from the URL, never from the body.
type SlideInput struct {
	Title    string
	Position int
	Content  string
}

// SlideService exposes CRUD over slides, scoped to their lesson.
type SlideService interface {
	Create(ctx context.Context, lessonID uint, input SlideInput) (*model.Slide, error)
	Get(ctx context.Context, lessonID uint, position int) (*model.Slide, error)
	ListByLesson(ctx context.Context, lessonID uint) ([]model.Slide, error)
	Update(ctx context.Context, lessonID uint, position int, input SlideInput) (*model.Slide, error)
	Delete(ctx context.Context, lessonID uint, position int) error
}

type slideService struct {
	repo       repository.SlideRepository
	lessonRepo repository.LessonRepository
}

// NewSlideService builds a SlideService. The lesson repository verifies the
// parent lesson on writes.
func NewSlideService(repo repository.SlideRepository, lessonRepo repository.LessonRepository) SlideService {
	return &slideService{repo: repo, lessonRepo: lessonRepo}
}

func (s *slideService) lessonExists(ctx context.Context, lessonID uint) error {
	if _, err := s.lessonRepo.FindByID(ctx, lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrLessonNotFound
		}
		return err
	}
	return nil
}

func (s *slideService) Create(ctx context.Context, lessonID uint, input SlideInput) (*model.Slide, error) {
	if err := s.lessonExists(ctx, lessonID); err != nil {
		return nil, err
	}

	slide := &model.Slide{
		Title:    input.Title,
		Slug:     slug.Make(input.Title),
		LessonID: &lessonID,
		Position: input.Position,
		Content:  input.Content,
	}
	if err := s.repo.Create(ctx, slide); err != nil {
		return nil, err
	}
	return slide, nil
}

func (s *slideService) Get(ctx context.Context, lessonID uint, position int) (*model.Slide, error) {
	slide, err := s.repo.FindByPosition(ctx, lessonID, position)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSlideNotFound
		}
		return nil, err
	}
	return slide, nil
}

func (s *slideService) ListByLesson(ctx context.Context, lessonID uint) ([]model.Slide, error) {
	if err := s.lessonExists(ctx, lessonID); err != nil {
		return nil, err
	}
	return s.repo.ListByLesson(ctx, lessonID)
}

func (s *slideService) Update(ctx context.Context, lessonID uint, position int, input SlideInput) (*model.Slide, error) {
	slide, err := s.Get(ctx, lessonID, position)
	if err != nil {
		return nil, err
	}

	slide.Title = input.Title
	slide.Slug = slug.Make(input.Title)
	slide.Position = input.Position
	slide.Content = input.Content

	if err := s.repo.Update(ctx, slide); err != nil {
		return nil, err
	}
	return slide, nil
}

func (s *slideService) Delete(ctx context.Context, lessonID uint, position int) error {
	if _, err := s.Get(ctx, lessonID, position); err != nil {
		return err
	}
	return s.repo.Delete(ctx, lessonID, position)
}
