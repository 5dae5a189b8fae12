package repository

import (
	"context"

	"gorm.io/gorm"

	"courseware/internal/model"
)

// LessonFilter narrows lesson listings.
type LessonFilter struct {
	CourseID *uint
	Search   string
}

// LessonRepository defines persistence operations for lessons.
type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	Update(ctx context.Context, lesson *model.Lesson) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Lesson, error)
	List(ctx context.Context, filter LessonFilter) ([]model.Lesson, error)
}

type lessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository builds a GORM-backed repository.
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	// Omit("Courses.*") writes the join rows without touching the course
	// records themselves.
	return r.db.WithContext(ctx).Omit("Courses.*").Create(lesson).Error
}

func (r *lessonRepository) Update(ctx context.Context, lesson *model.Lesson) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Omit("Courses").Save(lesson).Error; err != nil {
		return err
	}
	// Save does not sync many2many rows; Replace makes the join table
	// mirror lesson.Courses exactly, clearing it when the slice is empty.
	return tx.Model(lesson).Association("Courses").Replace(&lesson.Courses)
}

func (r *lessonRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Lesson{}, id).Error
}

func (r *lessonRepository) FindByID(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) List(ctx context.Context, filter LessonFilter) ([]model.Lesson, error) {
	q := r.db.WithContext(ctx).Order("position")
	if filter.CourseID != nil {
		q = q.Joins("JOIN course_lessons ON course_lessons.lesson_id = lessons.id").
			Where("course_lessons.course_id = ?", *filter.CourseID)
	}
	if filter.Search != "" {
		q = q.Where("title LIKE ?", "%"+filter.Search+"%")
	}

	var lessons []model.Lesson
	if err := q.Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}
