package repository

import (
	"context"
	"errors"
	"time"

	"shopkart/auth-service/internal/app/auth/entity"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidID       = errors.New("invalid user id")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrVersionConflict = errors.New("user was modified concurrently")
	ErrTokenNotFound   = errors.New("refresh token not found")
)

// UserRepository хранилище пользователей (MongoDB)
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByResetToken(ctx context.Context, hashedToken string, now time.Time) (*entity.User, error)
	// Update сохраняет пользователя целиком, если version не изменилась с момента чтения
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]entity.User, error)
}

// TokenRepository refresh токены и черный список access токенов (Redis)
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID string, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (string, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserRefreshTokens(ctx context.Context, userID string) error

	AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
