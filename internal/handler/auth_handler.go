package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"courseware/internal/errors"
	"courseware/internal/service"
)

// RefreshCookieName is the cookie carrying the refresh token. The token is
// never present in a response body; HTTP-only delivery keeps it out of
// reach of page scripts.
const RefreshCookieName = "jwt"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	refreshTTL  time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, refreshTTL: refreshTTL}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyRequest represents a token verification request.
type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// SignupRequest represents a self-service registration request. All four
// fields are required and no other field is accepted.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email,max=64"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,max=32"`
	LastName  string `json:"last_name" validate:"required,max=32"`
}

// AccessTokenResponse carries a freshly minted access token.
type AccessTokenResponse struct {
	Access string `json:"access"`
}

func (h *AuthHandler) refreshCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		MaxAge:   int(h.refreshTTL.Seconds()),
		Path:     "/",
		HttpOnly: true,
	}
}

func expiredRefreshCookie() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
	}
}

// Login checks credentials and answers with an access token in the body
// and the refresh token in an HTTP-only cookie. Unknown email and wrong
// password are indistinguishable in the response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, refreshToken, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_CREDENTIALS",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to login",
			Code:  "LOGIN_FAILED",
		})
	}

	c.SetCookie(h.refreshCookie(refreshToken))
	return c.JSON(http.StatusOK, AccessTokenResponse{Access: accessToken})
}

// Refresh mints a new access token from the refresh-token cookie. The
// request body is ignored; a missing cookie is an authentication failure.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "authentication credentials were not provided",
			Code:  "NOT_AUTHENTICATED",
		})
	}

	accessToken, err := h.authService.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		if err == service.ErrInvalidRefreshToken {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_REFRESH_TOKEN",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to refresh token",
			Code:  "REFRESH_FAILED",
		})
	}

	return c.JSON(http.StatusOK, AccessTokenResponse{Access: accessToken})
}

// Verify reports whether a submitted token is currently valid. Stateless;
// nothing is issued or revoked.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.Verify(req.Token); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_TOKEN",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{})
}

// Logout clears the refresh-token cookie. A request without the cookie is
// a client protocol error, not an identity failure. Tokens are not revoked
// server-side: a copied refresh token stays valid until natural expiry.
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := c.Cookie(RefreshCookieName); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "no session cookie",
			Code:  "NO_SESSION",
		})
	}

	c.SetCookie(expiredRefreshCookie())
	return c.NoContent(http.StatusOK)
}

// Signup registers a student account. The body is decoded strictly: any
// unrecognized field rejects the whole request.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid or unrecognized request fields",
			Code:  "INVALID_FIELDS",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if err == service.ErrUserAlreadyExists {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "USER_ALREADY_EXISTS",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to register user",
			Code:  "REGISTRATION_FAILED",
		})
	}

	return c.JSON(http.StatusOK, user)
}
