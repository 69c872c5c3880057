package service

import (
	"context"
	"time"

	"shopkart/auth-service/internal/app/auth/entity"
	"shopkart/auth-service/internal/app/auth/util"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*entity.AuthResponse, error)
	Logout(ctx context.Context, accessToken string) error
	ValidateToken(ctx context.Context, token string) (*util.JWTClaims, error)
	ForgotPassword(ctx context.Context, email string) (*entity.User, error)
	ResetPassword(ctx context.Context, token string, req *entity.ResetPasswordRequest) error
	UpdatePassword(ctx context.Context, userID string, req *entity.UpdatePasswordRequest) (*entity.AuthResponse, error)
	AccessTokenDuration() time.Duration
}

type UserServiceInterface interface {
	GetUser(ctx context.Context, id string) (*entity.User, error)
	UpdateProfile(ctx context.Context, id string, req *entity.UpdateProfileRequest) (*entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
	ToggleRole(ctx context.Context, id string) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type ListServiceInterface interface {
	ToggleWishList(ctx context.Context, userID, productID string) (bool, error)
	RecordView(ctx context.Context, userID, productID string) error
	GetRecentlyViewed(ctx context.Context, userID string) ([]entity.ListEntry, error)
}
