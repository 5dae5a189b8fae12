package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"courseware/internal/model"
)

// Token kinds. Access tokens authenticate requests; refresh tokens only
// mint new access tokens and travel exclusively in an HTTP-only cookie.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

var (
	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is returned when a token fails signature or claim checks.
	ErrTokenMalformed = errors.New("malformed token")
)

// Claims represents JWT claims. The role flags are a snapshot taken at
// issuance; role changes take effect on the next token, not mid-lifetime.
type Claims struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	Kind        string `json:"kind"`
	IsStudent   bool   `json:"is_student"`
	IsTeacher   bool   `json:"is_teacher"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation. It is stateless:
// validation needs only the signing secret, never a store lookup.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a new JWT service with the given secret and lifetimes.
func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccessToken generates a short-lived access token for the user.
func (s *JWTService) IssueAccessToken(user *model.User) (string, error) {
	return s.issue(user, TokenKindAccess, s.accessTTL, "")
}

// IssueRefreshToken generates a refresh token carrying a unique JTI.
func (s *JWTService) IssueRefreshToken(user *model.User) (string, error) {
	return s.issue(user, TokenKindRefresh, s.refreshTTL, uuid.New().String())
}

func (s *JWTService) issue(user *model.User, kind string, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:      user.ID,
		Email:       user.Email,
		Kind:        kind,
		IsStudent:   user.IsStudent,
		IsTeacher:   user.IsTeacher,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Decode validates a token string and returns its claims. Expired tokens
// report ErrTokenExpired; everything else that fails signature, method or
// claim checks reports ErrTokenMalformed.
func (s *JWTService) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.UserID == 0 || (claims.Kind != TokenKindAccess && claims.Kind != TokenKindRefresh) {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
