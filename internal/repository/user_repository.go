package repository

import (
	"context"

	"gorm.io/gorm"

	"courseware/internal/model"
)

// UserRepository defines persistence operations for users and their
// student/teacher profile rows.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	SyncProfiles(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	// Profile rows go with the user through the FK cascade.
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SyncProfiles reconciles the profile rows with the user's role flags.
func (r *userRepository) SyncProfiles(ctx context.Context, user *model.User) error {
	db := r.db.WithContext(ctx)
	if user.IsStudent {
		if err := db.FirstOrCreate(&model.StudentProfile{UserID: user.ID}).Error; err != nil {
			return err
		}
	} else if err := db.Delete(&model.StudentProfile{}, "user_id = ?", user.ID).Error; err != nil {
		return err
	}
	if user.IsTeacher {
		if err := db.FirstOrCreate(&model.TeacherProfile{UserID: user.ID}).Error; err != nil {
			return err
		}
	} else if err := db.Delete(&model.TeacherProfile{}, "user_id = ?", user.ID).Error; err != nil {
		return err
	}
	return nil
}
