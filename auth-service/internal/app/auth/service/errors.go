package service

import (
	"errors"
	"fmt"

	"shopkart/auth-service/internal/app/auth/entity"
	"shopkart/auth-service/internal/app/auth/repository"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserExists          = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrTokenExpired        = errors.New("token has expired")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenBlacklisted    = errors.New("token is blacklisted")
	ErrInvalidResetToken   = errors.New("reset token is invalid or has been expired")
	ErrPasswordMismatch    = errors.New("password does not match")
	ErrWrongOldPassword    = errors.New("old password is incorrect")
	ErrConcurrentUpdate    = errors.New("user was modified concurrently")
	ErrAlreadyViewed       = entity.ErrAlreadyViewed
)

// mapUserError переводит ошибки репозитория в ошибки сервиса
func mapUserError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrInvalidID):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrUserExists
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
