package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"courseware/internal/auth"
	"courseware/internal/model"
	"courseware/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// Unknown email, wrong password and a disabled account all collapse
	// into it so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidAccessToken is returned by Verify for unusable access tokens.
	ErrInvalidAccessToken = errors.New("invalid or expired access token")
)

// AuthService owns the login/refresh/verify flow. It is stateless across
// requests: every decision is a pure function of the credential store and
// the signing secret, so concurrent logins for the same user are
// independent and commutative.
type AuthService interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Verify(token string) error
	Signup(ctx context.Context, email, password, firstName, lastName string) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// NormalizeEmail lowercases and trims an email before store or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials and issues one access and one refresh token.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, ErrInvalidCredentials
		}
		return "", "", nil, fmt.Errorf("find user: %w", err)
	}

	if !user.IsActive {
		return "", "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.IssueAccessToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.jwtService.IssueRefreshToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// Refresh validates a refresh token and mints a new access token from the
// role snapshot the refresh token carries. The refresh token itself is not
// rotated; it stays usable until its own expiry.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.Decode(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if claims.Kind != auth.TokenKindRefresh {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.IssueAccessToken(&model.User{
		ID:          claims.UserID,
		Email:       claims.Email,
		IsStudent:   claims.IsStudent,
		IsTeacher:   claims.IsTeacher,
		IsStaff:     claims.IsStaff,
		IsSuperuser: claims.IsSuperuser,
	})
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	return accessToken, nil
}

// Verify reports whether a token is currently usable. No side effects.
func (s *authService) Verify(token string) error {
	if _, err := s.jwtService.Decode(token); err != nil {
		return ErrInvalidAccessToken
	}
	return nil
}

// Signup registers a self-service account with the student defaults. Role
// escalation is only possible through the admin user endpoints.
func (s *authService) Signup(ctx context.Context, email, password, firstName, lastName string) (*model.User, error) {
	normalized := NormalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, normalized)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
		IsStudent:    true,
		IsTeacher:    false,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.userRepo.SyncProfiles(ctx, user); err != nil {
		return nil, fmt.Errorf("sync profiles: %w", err)
	}

	return user, nil
}
