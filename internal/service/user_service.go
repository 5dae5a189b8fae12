package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "courseware/internal/errors"
	"courseware/internal/model"
	"courseware/internal/repository"
)

// UserInput carries the full field set an admin may set on a user.
// Password is plain text on input only and hashed before it touches the
// store; an empty password on update leaves the stored hash untouched.
type UserInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	IsStudent   bool
	IsTeacher   bool
	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
}

// UserService exposes the admin-only user management operations.
type UserService interface {
	Create(ctx context.Context, input UserInput) (*model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint, input UserInput) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService over the user repository.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(ctx context.Context, input UserInput) (*model.User, error) {
	normalized := NormalizeEmail(input.Email)

	if existing, err := s.repo.FindByEmail(ctx, normalized); err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        normalized,
		PasswordHash: string(hashed),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsStudent:    input.IsStudent,
		IsTeacher:    input.IsTeacher,
		IsActive:     input.IsActive,
		IsStaff:      input.IsStaff || input.IsSuperuser, // superuser implies staff
		IsSuperuser:  input.IsSuperuser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.repo.SyncProfiles(ctx, user); err != nil {
		return nil, fmt.Errorf("sync profiles: %w", err)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Update(ctx context.Context, id uint, input UserInput) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Email = NormalizeEmail(input.Email)
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.IsStudent = input.IsStudent
	user.IsTeacher = input.IsTeacher
	user.IsActive = input.IsActive
	user.IsStaff = input.IsStaff || input.IsSuperuser
	user.IsSuperuser = input.IsSuperuser

	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := s.repo.SyncProfiles(ctx, user); err != nil {
		return nil, fmt.Errorf("sync profiles: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
