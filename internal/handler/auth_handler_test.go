package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseware/internal/auth"
	"courseware/internal/handler"
	"courseware/internal/model"
)

func TestLogin(t *testing.T) {
	srv := newTestServer(t, false)
	srv.addUser(t, "student@example.com", "password123", nil)
	srv.addUser(t, "inactive@example.com", "password123", func(u *model.User) {
		u.IsActive = false
	})

	t.Run("success sets refresh cookie and returns access token", func(t *testing.T) {
		rec := srv.do(http.MethodPost, "/core/login/", `{"email":"student@example.com","password":"password123"}`, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body handler.AccessTokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotEmpty(t, body.Access)

		claims, err := srv.jwtService.Decode(body.Access)
		require.NoError(t, err)
		assert.Equal(t, uint(1), claims.UserID)
		assert.Equal(t, auth.TokenKindAccess, claims.Kind)

		cookie := refreshCookieFrom(rec)
		require.NotNil(t, cookie, "refresh cookie must be set")
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, int((4 * time.Hour).Seconds()), cookie.MaxAge)

		// The refresh token travels only in the cookie.
		assert.NotContains(t, rec.Body.String(), cookie.Value)
		refreshClaims, err := srv.jwtService.Decode(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, auth.TokenKindRefresh, refreshClaims.Kind)
	})

	t.Run("failure shapes are indistinguishable", func(t *testing.T) {
		unknown := srv.do(http.MethodPost, "/core/login/", `{"email":"nobody@example.com","password":"password123"}`, "")
		wrongPass := srv.do(http.MethodPost, "/core/login/", `{"email":"student@example.com","password":"wrong-password"}`, "")
		inactive := srv.do(http.MethodPost, "/core/login/", `{"email":"inactive@example.com","password":"password123"}`, "")

		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		assert.Equal(t, http.StatusUnauthorized, inactive.Code)
		assert.Equal(t, unknown.Body.String(), wrongPass.Body.String())
		assert.Equal(t, unknown.Body.String(), inactive.Body.String())
		assert.Nil(t, refreshCookieFrom(unknown))
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		rec := srv.do(http.MethodPost, "/core/login/", `{"email":"student@example.com"}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRefresh(t *testing.T) {
	srv := newTestServer(t, false)
	user := srv.addUser(t, "student@example.com", "password123", nil)

	validRefresh, err := srv.jwtService.IssueRefreshToken(user)
	require.NoError(t, err)
	expiredRefresh, err := auth.NewJWTService(testSecret, -time.Minute, -time.Minute).IssueRefreshToken(user)
	require.NoError(t, err)

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantStatus int
	}{
		{name: "missing cookie", cookie: nil, wantStatus: http.StatusUnauthorized},
		{name: "garbage cookie", cookie: &http.Cookie{Name: handler.RefreshCookieName, Value: "garbage"}, wantStatus: http.StatusUnauthorized},
		{name: "expired refresh token", cookie: &http.Cookie{Name: handler.RefreshCookieName, Value: expiredRefresh}, wantStatus: http.StatusUnauthorized},
		{name: "valid refresh token", cookie: &http.Cookie{Name: handler.RefreshCookieName, Value: validRefresh}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookies := []*http.Cookie{}
			if tt.cookie != nil {
				cookies = append(cookies, tt.cookie)
			}
			rec := srv.do(http.MethodPost, "/core/refresh/", "", "", cookies...)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}
			var body handler.AccessTokenResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			claims, err := srv.jwtService.Decode(body.Access)
			require.NoError(t, err)
			assert.Equal(t, auth.TokenKindAccess, claims.Kind)
			assert.Equal(t, user.ID, claims.UserID)
			// No rotation: the refresh cookie is not reissued.
			assert.Nil(t, refreshCookieFrom(rec))
		})
	}
}

func TestRefreshReturnsFreshToken(t *testing.T) {
	srv := newTestServer(t, false)
	user := srv.addUser(t, "student@example.com", "password123", nil)

	login := srv.do(http.MethodPost, "/core/login/", `{"email":"student@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusOK, login.Code)
	var loginBody handler.AccessTokenResponse
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &loginBody))
	cookie := refreshCookieFrom(login)
	require.NotNil(t, cookie)

	// A later refresh carries a later issued-at timestamp.
	time.Sleep(1100 * time.Millisecond)
	refresh := srv.do(http.MethodPost, "/core/refresh/", "", "", cookie)
	require.Equal(t, http.StatusOK, refresh.Code)
	var refreshBody handler.AccessTokenResponse
	require.NoError(t, json.Unmarshal(refresh.Body.Bytes(), &refreshBody))

	assert.NotEqual(t, loginBody.Access, refreshBody.Access)
	first, err := srv.jwtService.Decode(loginBody.Access)
	require.NoError(t, err)
	second, err := srv.jwtService.Decode(refreshBody.Access)
	require.NoError(t, err)
	assert.True(t, second.IssuedAt.After(first.IssuedAt.Time))
	assert.Equal(t, user.ID, second.UserID)
}

func TestVerify(t *testing.T) {
	srv := newTestServer(t, false)
	user := srv.addUser(t, "student@example.com", "password123", nil)

	valid := srv.accessToken(t, user)
	expired, err := auth.NewJWTService(testSecret, -time.Minute, -time.Minute).IssueAccessToken(user)
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "valid token", body: `{"token":"` + valid + `"}`, wantStatus: http.StatusOK},
		{name: "expired token", body: `{"token":"` + expired + `"}`, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", body: `{"token":"garbage"}`, wantStatus: http.StatusUnauthorized},
		{name: "missing token field", body: `{}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(http.MethodPost, "/core/verify/", tt.body, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t, false)
	user := srv.addUser(t, "student@example.com", "password123", nil)
	refresh, err := srv.jwtService.IssueRefreshToken(user)
	require.NoError(t, err)

	t.Run("GET answers 405 before anything else", func(t *testing.T) {
		rec := srv.do(http.MethodGet, "/core/logout/", "", "", &http.Cookie{Name: handler.RefreshCookieName, Value: refresh})
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("POST without cookie is a bad request", func(t *testing.T) {
		rec := srv.do(http.MethodPost, "/core/logout/", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("POST with cookie clears it", func(t *testing.T) {
		rec := srv.do(http.MethodPost, "/core/logout/", "", "", &http.Cookie{Name: handler.RefreshCookieName, Value: refresh})
		require.Equal(t, http.StatusOK, rec.Code)

		cookie := refreshCookieFrom(rec)
		require.NotNil(t, cookie, "response must clear the cookie")
		assert.Empty(t, cookie.Value)
		assert.Less(t, cookie.MaxAge, 0)
	})

	t.Run("logout does not revoke the token itself", func(t *testing.T) {
		rec := srv.do(http.MethodPost, "/core/refresh/", "", "", &http.Cookie{Name: handler.RefreshCookieName, Value: refresh})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSignup(t *testing.T) {
	srv := newTestServer(t, false)
	srv.addUser(t, "taken@example.com", "password123", nil)

	t.Run("creates a student account", func(t *testing.T) {
		rec := srv.do(http.MethodPost, "/core/signup/",
			`{"email":"new@example.com","password":"password123","first_name":"New","last_name":"Student"}`, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "new@example.com", body["email"])
		assert.Equal(t, true, body["is_student"])
		assert.Equal(t, false, body["is_teacher"])
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "password_hash")
		assert.NotContains(t, rec.Body.String(), "password123")
	})

	t.Run("field matrix", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{name: "missing email", body: `{"password":"password123","first_name":"A","last_name":"B"}`},
			{name: "missing password", body: `{"email":"a@example.com","first_name":"A","last_name":"B"}`},
			{name: "missing first name", body: `{"email":"a@example.com","password":"password123","last_name":"B"}`},
			{name: "missing last name", body: `{"email":"a@example.com","password":"password123","first_name":"A"}`},
			{name: "unrecognized extra field", body: `{"email":"a@example.com","password":"password123","first_name":"A","last_name":"B","is_teacher":true}`},
			{name: "field name typo", body: `{"email":"a@example.com","password":"password123","first_name":"A","lastname":"B"}`},
			{name: "duplicate email", body: `{"email":"taken@example.com","password":"password123","first_name":"A","last_name":"B"}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := srv.do(http.MethodPost, "/core/signup/", tt.body, "")
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			})
		}
	})
}
