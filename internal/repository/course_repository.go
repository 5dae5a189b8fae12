package repository

import (
	"context"

	"gorm.io/gorm"

	"courseware/internal/model"
)

// CourseFilter narrows course listings.
type CourseFilter struct {
	CategoryID *uint
	Search     string
}

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]model.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository builds a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Course{}, id).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]model.Course, error) {
	q := r.db.WithContext(ctx).Order("courses.title")
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		// Matches the course title or the item number of any of its lessons.
		like := "%" + filter.Search + "%"
		q = q.Distinct("courses.*").
			Joins("LEFT JOIN course_lessons ON course_lessons.course_id = courses.id").
			Joins("LEFT JOIN lessons ON lessons.id = course_lessons.lesson_id").
			Where("courses.title LIKE ? OR lessons.item LIKE ?", like, like)
	}

	var courses []model.Course
	if err := q.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}
