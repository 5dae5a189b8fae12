package repository

import (
	"context"

	"gorm.io/gorm"

	"courseware/internal/model"
)

// SlideRepository defines persistence operations for slides. Slides are
// addressed inside a lesson by their position, not by primary key.
type SlideRepository interface {
	Create(ctx context.Context, slide *model.Slide) error
	Update(ctx context.Context, slide *model.Slide) error
	Delete(ctx context.Context, lessonID uint, position int) error
	FindByPosition(ctx context.Context, lessonID uint, position int) (*model.Slide, error)
	ListByLesson(ctx context.Context, lessonID uint) ([]model.Slide, error)
}

type slideRepository struct {
	db *gorm.DB
}

// NewSlideRepository builds a GORM-backed repository.
func NewSlideRepository(db *gorm.DB) SlideRepository {
	return &slideRepository{db: db}
}

func (r *slideRepository) Create(ctx context.Context, slide *model.Slide) error {
	return r.db.WithContext(ctx).Create(slide).Error
}

func (r *slideRepository) Update(ctx context.Context, slide *model.Slide) error {
	return r.db.WithContext(ctx).Save(slide).Error
}

func (r *slideRepository) Delete(ctx context.Context, lessonID uint, position int) error {
	return r.db.WithContext(ctx).
		Where("lesson_id = ? AND position = ?", lessonID, position).
		Delete(&model.Slide{}).Error
}

func (r *slideRepository) FindByPosition(ctx context.Context, lessonID uint, position int) (*model.Slide, error) {
	var slide model.Slide
	err := r.db.WithContext(ctx).
		Where("lesson_id = ? AND position = ?", lessonID, position).
		First(&slide).Error
	if err != nil {
		return nil, err
	}
	return &slide, nil
}

func (r *slideRepository) ListByLesson(ctx context.Context, lessonID uint) ([]model.Slide, error) {
	var slides []model.Slide
	err := r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("position").
		Find(&slides).Error
	if err != nil {
		return nil, err
	}
	return slides, nil
}
