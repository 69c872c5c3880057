package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopkart/auth-service/internal/app/auth/entity"
	"shopkart/auth-service/internal/app/auth/repository"
	"shopkart/auth-service/internal/app/auth/repository/mocks"
	"shopkart/auth-service/internal/app/auth/service"
	"shopkart/auth-service/internal/app/auth/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

type testDeps struct {
	userRepo  *mocks.MockUserRepository
	tokenRepo *mocks.MockTokenRepository
	publisher *mocks.MockMessagePublisher
	jwt       *util.JWTManager
}

func newTestAuthHandler() (*AuthHandler, *service.AuthService, *testDeps) {
	deps := &testDeps{
		userRepo:  new(mocks.MockUserRepository),
		tokenRepo: new(mocks.MockTokenRepository),
		publisher: new(mocks.MockMessagePublisher),
		jwt:       util.NewJWTManager(testSecret, 15*time.Minute, 7*24*time.Hour),
	}
	authService := service.NewAuthService(deps.userRepo, deps.tokenRepo, deps.jwt, deps.publisher, "http://localhost:3000")
	return NewAuthHandler(authService), authService, deps
}

func newTestUser(t *testing.T, password string) *entity.User {
	t.Helper()
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	return &entity.User{
		ID:           primitive.NewObjectID(),
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: hash,
		Role:         entity.RoleUser,
	}
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

func decodeMessage(t *testing.T, body *bytes.Buffer) entity.MessageResponse {
	t.Helper()
	var resp entity.MessageResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &resp))
	return resp
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	// Arrange
	h, _, deps := newTestAuthHandler()
	router := setupTestRouter()
	router.POST("/api/v1/register", h.Register)

	deps.userRepo.On("GetByEmail", mock.Anything, "asha@example.com").Return(nil, repository.ErrUserNotFound)
	deps.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)
	deps.publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	deps.tokenRepo.On("SaveRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", jsonBody(t, gin.H{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "password123",
	}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)

	var resp entity.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)

	cookie := findCookie(w, TokenCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, resp.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, int((15 * time.Minute).Seconds()), cookie.MaxAge)
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name string
		body gin.H
	}{
		{name: "short password", body: gin.H{"name": "Asha", "email": "asha@example.com", "password": "short"}},
		{name: "bad email", body: gin.H{"name": "Asha", "email": "not-an-email", "password": "password123"}},
		{name: "missing name", body: gin.H{"email": "asha@example.com", "password": "password123"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, _, deps := newTestAuthHandler()
			router := setupTestRouter()
			router.POST("/api/v1/register", h.Register)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/register", jsonBody(t, tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, decodeMessage(t, w.Body).Success)
			deps.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthHandler_Register_UserAlreadyExists(t *testing.T) {
	h, _, deps := newTestAuthHandler()
	router := setupTestRouter()
	router.POST("/api/v1/register", h.Register)
	deps.userRepo.On("GetByEmail", mock.Anything, "asha@example.com").Return(&entity.User{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", jsonBody(t, gin.H{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "password123",
	}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	user := newTestUser(t, "password123")

	t.Run("success", func(t *testing.T) {
		h, _, deps := newTestAuthHandler()
		router := setupTestRouter()
		router.POST("/api/v1/login", h.Login)
		deps.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
		deps.tokenRepo.On("SaveRefreshToken", mock.Anything, user.ID.Hex(), mock.Anything, mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", jsonBody(t, gin.H{"email": user.Email, "password": "password123"}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Welcome back Asha", decodeMessage(t, w.Body).Message)
		assert.NotNil(t, findCookie(w, TokenCookie))
	})

	t.Run("wrong password", func(t *testing.T) {
		h, _, deps := newTestAuthHandler()
		router := setupTestRouter()
		router.POST("/api/v1/login", h.Login)
		deps.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", jsonBody(t, gin.H{"email": user.Email, "password": "wrong-pass"}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Incorrect Email or Password", decodeMessage(t, w.Body).Message)
		assert.Nil(t, findCookie(w, TokenCookie))
	})
}

func TestAuthHandler_RefreshToken_InvalidToken(t *testing.T) {
	h, _, deps := newTestAuthHandler()
	router := setupTestRouter()
	router.POST("/api/v1/refresh", h.RefreshToken)
	deps.tokenRepo.On("GetRefreshToken", mock.Anything, "bogus").Return("", repository.ErrTokenNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", jsonBody(t, gin.H{"refreshToken": "bogus"}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes token and clears cookie", func(t *testing.T) {
		h, _, deps := newTestAuthHandler()
		router := setupTestRouter()
		router.GET("/api/v1/logout", h.Logout)

		user := newTestUser(t, "password123")
		token, err := deps.jwt.GenerateAccessToken(user)
		require.NoError(t, err)
		deps.tokenRepo.On("AddToBlacklist", mock.Anything, token, mock.Anything).Return(nil)
		deps.tokenRepo.On("DeleteUserRefreshTokens", mock.Anything, user.ID.Hex()).Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/logout", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Logged Out", decodeMessage(t, w.Body).Message)
		cookie := findCookie(w, TokenCookie)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		deps.tokenRepo.AssertExpectations(t)
	})

	t.Run("without token", func(t *testing.T) {
		h, _, deps := newTestAuthHandler()
		router := setupTestRouter()
		router.GET("/api/v1/logout", h.Logout)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logout", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		deps.tokenRepo.AssertNotCalled(t, "AddToBlacklist", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	t.Run("sends reset link", func(t *testing.T) {
		h, _, deps := newTestAuthHandler()
		router := setupTestRouter()
		router.POST("/api/v1/password/forget", h.ForgotPassword)

		user := newTestUser(t, "password123")
		deps.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
		deps.userRepo.On("Update", mock.Anything, user).Return(nil)
		deps.publisher.On("PublishMessage", mock.Anything, user.ID.Hex(), mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/password/forget", jsonBody(t, gin.H{"email": user.Email}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Reset Token has been sent to asha@example.com", decodeMessage(t, w.Body).Message)
	})

	t.Run("unknown email", func(t *testing.T) {
		h, _, deps := newTestAuthHandler()
		router := setupTestRouter()
		router.POST("/api/v1/password/forget", h.ForgotPassword)
		deps.userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/password/forget", jsonBody(t, gin.H{"email": "ghost@example.com"}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User not found", decodeMessage(t, w.Body).Message)
	})
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	testCases := []struct {
		name           string
		body           gin.H
		setup          func(d *testDeps)
		expectedStatus int
	}{
		{
			name:           "mismatch",
			body:           gin.H{"password": "new-password", "confirmPassword": "other-password"},
			setup:          func(d *testDeps) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "expired token",
			body: gin.H{"password": "new-password", "confirmPassword": "new-password"},
			setup: func(d *testDeps) {
				d.userRepo.On("GetByResetToken", mock.Anything, util.HashResetToken("abc"), mock.Anything).Return(nil, repository.ErrUserNotFound)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "success",
			body: gin.H{"password": "new-password", "confirmPassword": "new-password"},
			setup: func(d *testDeps) {
				user := &entity.User{ID: primitive.NewObjectID(), ResetPasswordToken: util.HashResetToken("abc")}
				d.userRepo.On("GetByResetToken", mock.Anything, util.HashResetToken("abc"), mock.Anything).Return(user, nil)
				d.userRepo.On("Update", mock.Anything, user).Return(nil)
				d.tokenRepo.On("DeleteUserRefreshTokens", mock.Anything, user.ID.Hex()).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, _, deps := newTestAuthHandler()
			router := setupTestRouter()
			router.PUT("/api/v1/password/reset/:token", h.ResetPassword)
			tc.setup(deps)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/password/reset/abc", jsonBody(t, tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func TestAuthHandler_UpdatePassword_WrongOld(t *testing.T) {
	h, _, deps := newTestAuthHandler()
	router := setupTestRouter()
	user := newTestUser(t, "password123")
	router.PUT("/api/v1/password/update", func(c *gin.Context) {
		c.Set("user_id", user.ID.Hex())
		c.Next()
	}, h.UpdatePassword)
	deps.userRepo.On("GetByID", mock.Anything, user.ID.Hex()).Return(user, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/password/update", jsonBody(t, gin.H{
		"oldPassword":     "nope",
		"newPassword":     "new-password",
		"confirmPassword": "new-password",
	}))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Old Password is Invalid", decodeMessage(t, w.Body).Message)
}
