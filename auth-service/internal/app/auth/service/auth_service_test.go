package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"shopkart/auth-service/internal/app/auth/entity"
	"shopkart/auth-service/internal/app/auth/repository"
	"shopkart/auth-service/internal/app/auth/repository/mocks"
	"shopkart/auth-service/internal/app/auth/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testFrontendURL = "http://localhost:3000"

type authDeps struct {
	userRepo  *mocks.MockUserRepository
	tokenRepo *mocks.MockTokenRepository
	publisher *mocks.MockMessagePublisher
	jwt       *util.JWTManager
}

func setupAuthService() (*AuthService, *authDeps) {
	deps := &authDeps{
		userRepo:  new(mocks.MockUserRepository),
		tokenRepo: new(mocks.MockTokenRepository),
		publisher: new(mocks.MockMessagePublisher),
		jwt:       util.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour),
	}
	svc := NewAuthService(deps.userRepo, deps.tokenRepo, deps.jwt, deps.publisher, testFrontendURL)
	return svc, deps
}

func existingUser(t *testing.T, password string) *entity.User {
	t.Helper()
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	return &entity.User{
		ID:           primitive.NewObjectID(),
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: hash,
		Role:         entity.RoleUser,
		Version:      1,
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// Arrange
		svc, deps := setupAuthService()
		req := &entity.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "password123"}
		newID := primitive.NewObjectID()

		deps.userRepo.On("GetByEmail", mock.Anything, req.Email).Return(nil, repository.ErrUserNotFound)
		deps.userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
			return u.Role == entity.RoleUser && u.PasswordHash != req.Password && util.CheckPassword(req.Password, u.PasswordHash)
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = newID
		}).Return(nil)
		deps.publisher.On("PublishMessage", mock.Anything, newID.Hex(), mock.Anything).Return(nil)
		deps.tokenRepo.On("SaveRefreshToken", mock.Anything, newID.Hex(), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

		// Act
		resp, err := svc.Register(context.Background(), req)

		// Assert
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "Registered Successfully", resp.Message)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.RefreshToken)

		claims, err := deps.jwt.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, newID.Hex(), claims.UserID)
		assert.Equal(t, entity.RoleUser, claims.Role)

		deps.userRepo.AssertExpectations(t)
		deps.publisher.AssertExpectations(t)
		deps.tokenRepo.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, deps := setupAuthService()
		req := &entity.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "password123"}
		deps.userRepo.On("GetByEmail", mock.Anything, req.Email).Return(&entity.User{}, nil)

		resp, err := svc.Register(context.Background(), req)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrUserExists)
		deps.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lost race on unique index", func(t *testing.T) {
		svc, deps := setupAuthService()
		req := &entity.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "password123"}
		deps.userRepo.On("GetByEmail", mock.Anything, req.Email).Return(nil, repository.ErrUserNotFound)
		deps.userRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEmail)

		_, err := svc.Register(context.Background(), req)

		assert.ErrorIs(t, err, ErrUserExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, deps := setupAuthService()
		user := existingUser(t, "password123")
		deps.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
		deps.tokenRepo.On("SaveRefreshToken", mock.Anything, user.ID.Hex(), mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Login(context.Background(), &entity.LoginRequest{Email: user.Email, Password: "password123"})

		require.NoError(t, err)
		assert.Equal(t, "Welcome back Asha", resp.Message)
		assert.Equal(t, user, resp.User)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, deps := setupAuthService()
		user := existingUser(t, "password123")
		deps.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

		_, err := svc.Login(context.Background(), &entity.LoginRequest{Email: user.Email, Password: "nope"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		deps.tokenRepo.AssertNotCalled(t, "SaveRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email looks like wrong password", func(t *testing.T) {
		svc, deps := setupAuthService()
		deps.userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

		_, err := svc.Login(context.Background(), &entity.LoginRequest{Email: "ghost@example.com", Password: "x"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshTokens(t *testing.T) {
	t.Run("rotates refresh token", func(t *testing.T) {
		svc, deps := setupAuthService()
		user := existingUser(t, "password123")
		deps.tokenRepo.On("GetRefreshToken", mock.Anything, "old-refresh").Return(user.ID.Hex(), nil)
		deps.tokenRepo.On("DeleteRefreshToken", mock.Anything, "old-refresh").Return(nil)
		deps.userRepo.On("GetByID", mock.Anything, user.ID.Hex()).Return(user, nil)
		deps.tokenRepo.On("SaveRefreshToken", mock.Anything, user.ID.Hex(), mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.RefreshTokens(context.Background(), "old-refresh")

		require.NoError(t, err)
		assert.NotEqual(t, "old-refresh", resp.RefreshToken)
		deps.tokenRepo.AssertExpectations(t)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, deps := setupAuthService()
		deps.tokenRepo.On("GetRefreshToken", mock.Anything, "missing").Return("", repository.ErrTokenNotFound)

		_, err := svc.RefreshTokens(context.Background(), "missing")

		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	user := existingUser(t, "password123")

	t.Run("valid", func(t *testing.T) {
		svc, deps := setupAuthService()
		token, err := deps.jwt.GenerateAccessToken(user)
		require.NoError(t, err)
		deps.tokenRepo.On("IsBlacklisted", mock.Anything, token).Return(false, nil)

		claims, err := svc.ValidateToken(context.Background(), token)

		require.NoError(t, err)
		assert.Equal(t, user.Email, claims.Email)
	})

	t.Run("blacklisted", func(t *testing.T) {
		svc, deps := setupAuthService()
		token, err := deps.jwt.GenerateAccessToken(user)
		require.NoError(t, err)
		deps.tokenRepo.On("IsBlacklisted", mock.Anything, token).Return(true, nil)

		_, err = svc.ValidateToken(context.Background(), token)

		assert.ErrorIs(t, err, ErrTokenBlacklisted)
	})

	t.Run("expired", func(t *testing.T) {
		svc, _ := setupAuthService()
		expired := util.NewJWTManager("test-secret", -time.Minute, time.Hour)
		token, err := expired.GenerateAccessToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), token)

		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		svc, _ := setupAuthService()

		_, err := svc.ValidateToken(context.Background(), "not.a.jwt")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	svc, deps := setupAuthService()
	user := existingUser(t, "password123")
	token, err := deps.jwt.GenerateAccessToken(user)
	require.NoError(t, err)

	deps.tokenRepo.On("AddToBlacklist", mock.Anything, token, mock.AnythingOfType("time.Time")).Return(nil)
	deps.tokenRepo.On("DeleteUserRefreshTokens", mock.Anything, user.ID.Hex()).Return(nil)

	err = svc.Logout(context.Background(), token)

	require.NoError(t, err)
	deps.tokenRepo.AssertExpectations(t)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Run("stores hashed token and publishes link", func(t *testing.T) {
		// Arrange
		svc, deps := setupAuthService()
		now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return now }
		user := existingUser(t, "password123")

		var stored string
		deps.userRepo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
		deps.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
			stored = u.ResetPasswordToken
			return u.ResetPasswordExpire != nil && u.ResetPasswordExpire.Equal(now.Add(ResetTokenTTL))
		})).Return(nil)

		var event entity.UserEvent
		deps.publisher.On("PublishMessage", mock.Anything, user.ID.Hex(), mock.Anything).Run(func(args mock.Arguments) {
			require.NoError(t, json.Unmarshal(args.Get(2).([]byte), &event))
		}).Return(nil)

		// Act
		got, err := svc.ForgotPassword(context.Background(), user.Email)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
		assert.Equal(t, entity.EventPasswordResetRequested, event.EventType)
		require.True(t, strings.HasPrefix(event.ResetURL, testFrontendURL+"/password/reset/"))

		token := strings.TrimPrefix(event.ResetURL, testFrontendURL+"/password/reset/")
		assert.NotEqual(t, token, stored)
		assert.Equal(t, util.HashResetToken(token), stored)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, deps := setupAuthService()
		deps.userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

		_, err := svc.ForgotPassword(context.Background(), "ghost@example.com")

		assert.ErrorIs(t, err, ErrUserNotFound)
		deps.publisher.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("success clears token and revokes sessions", func(t *testing.T) {
		svc, deps := setupAuthService()
		user := existingUser(t, "password123")
		expire := time.Now().Add(10 * time.Minute)
		user.ResetPasswordToken = util.HashResetToken("link-token")
		user.ResetPasswordExpire = &expire

		deps.userRepo.On("GetByResetToken", mock.Anything, util.HashResetToken("link-token"), mock.Anything).Return(user, nil)
		deps.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
			return u.ResetPasswordToken == "" && u.ResetPasswordExpire == nil && util.CheckPassword("brand-new-pass", u.PasswordHash)
		})).Return(nil)
		deps.tokenRepo.On("DeleteUserRefreshTokens", mock.Anything, user.ID.Hex()).Return(nil)

		err := svc.ResetPassword(context.Background(), "link-token", &entity.ResetPasswordRequest{
			Password:        "brand-new-pass",
			ConfirmPassword: "brand-new-pass",
		})

		require.NoError(t, err)
		deps.userRepo.AssertExpectations(t)
		deps.tokenRepo.AssertExpectations(t)
	})

	t.Run("mismatch", func(t *testing.T) {
		svc, deps := setupAuthService()

		err := svc.ResetPassword(context.Background(), "link-token", &entity.ResetPasswordRequest{
			Password:        "brand-new-pass",
			ConfirmPassword: "other-pass",
		})

		assert.ErrorIs(t, err, ErrPasswordMismatch)
		deps.userRepo.AssertNotCalled(t, "GetByResetToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("expired or unknown token", func(t *testing.T) {
		svc, deps := setupAuthService()
		deps.userRepo.On("GetByResetToken", mock.Anything, mock.Anything, mock.Anything).Return(nil, repository.ErrUserNotFound)

		err := svc.ResetPassword(context.Background(), "stale", &entity.ResetPasswordRequest{
			Password:        "brand-new-pass",
			ConfirmPassword: "brand-new-pass",
		})

		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})
}

func TestAuthService_UpdatePassword(t *testing.T) {
	t.Run("wrong old password", func(t *testing.T) {
		svc, deps := setupAuthService()
		user := existingUser(t, "password123")
		deps.userRepo.On("GetByID", mock.Anything, user.ID.Hex()).Return(user, nil)

		_, err := svc.UpdatePassword(context.Background(), user.ID.Hex(), &entity.UpdatePasswordRequest{
			OldPassword:     "wrong",
			NewPassword:     "new-password",
			ConfirmPassword: "new-password",
		})

		assert.ErrorIs(t, err, ErrWrongOldPassword)
	})

	t.Run("success issues new tokens", func(t *testing.T) {
		svc, deps := setupAuthService()
		user := existingUser(t, "password123")
		deps.userRepo.On("GetByID", mock.Anything, user.ID.Hex()).Return(user, nil)
		deps.userRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		deps.tokenRepo.On("DeleteUserRefreshTokens", mock.Anything, user.ID.Hex()).Return(nil)
		deps.tokenRepo.On("SaveRefreshToken", mock.Anything, user.ID.Hex(), mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.UpdatePassword(context.Background(), user.ID.Hex(), &entity.UpdatePasswordRequest{
			OldPassword:     "password123",
			NewPassword:     "new-password",
			ConfirmPassword: "new-password",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.True(t, util.CheckPassword("new-password", user.PasswordHash))
	})
}

func TestUpdateUser_RetriesOnVersionConflict(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	user := &entity.User{ID: primitive.NewObjectID(), Name: "old", Version: 1}
	fresh := &entity.User{ID: user.ID, Name: "old", Version: 2}

	repo.On("Update", mock.Anything, user).Return(repository.ErrVersionConflict).Once()
	repo.On("GetByID", mock.Anything, user.ID.Hex()).Return(fresh, nil).Once()
	repo.On("Update", mock.Anything, fresh).Return(nil).Once()

	saved, err := updateUser(context.Background(), repo, user, func(u *entity.User) error {
		u.Name = "new"
		return nil
	})

	require.NoError(t, err)
	assert.Same(t, fresh, saved)
	assert.Equal(t, "new", saved.Name)
	repo.AssertExpectations(t)
}

func TestUpdateUser_GivesUpAfterMaxAttempts(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	user := &entity.User{ID: primitive.NewObjectID()}

	repo.On("Update", mock.Anything, mock.Anything).Return(repository.ErrVersionConflict)
	repo.On("GetByID", mock.Anything, user.ID.Hex()).Return(&entity.User{ID: user.ID}, nil)

	_, err := updateUser(context.Background(), repo, user, func(u *entity.User) error { return nil })

	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	repo.AssertNumberOfCalls(t, "Update", maxWriteAttempts)
}

func TestUpdateUser_ApplyErrorStopsWrite(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	boom := errors.New("boom")

	_, err := updateUser(context.Background(), repo, &entity.User{ID: primitive.NewObjectID()}, func(u *entity.User) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
