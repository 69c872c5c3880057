package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopkart/auth-service/internal/app/auth/entity"
	"shopkart/auth-service/internal/app/auth/repository"
	"shopkart/auth-service/internal/app/auth/util"
	"shopkart/pkg/logger"
	"shopkart/pkg/messaging"
	"shopkart/pkg/metrics"
)

// ResetTokenTTL время жизни ссылки восстановления пароля
const ResetTokenTTL = 15 * time.Minute

// AuthService регистрация, вход, токены и восстановление пароля
type AuthService struct {
	userRepo    repository.UserRepository
	tokenRepo   repository.TokenRepository
	jwtManager  *util.JWTManager
	publisher   messaging.Publisher
	frontendURL string
	now         func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *util.JWTManager,
	publisher messaging.Publisher,
	frontendURL string,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		jwtManager:  jwtManager,
		publisher:   publisher,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// AccessTokenDuration срок жизни access токена (и cookie token)
func (s *AuthService) AccessTokenDuration() time.Duration {
	return s.jwtManager.GetAccessTokenDuration()
}

// Register регистрирует пользователя с ролью user и сразу выдает токены
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         entity.RoleUser,
		CreatedAt:    s.now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, mapUserError("create user", err)
	}

	metrics.AuthRegistrations.Inc()
	messaging.PublishEvent(ctx, s.publisher, user.ID.Hex(), entity.UserEvent{
		EventType: entity.EventUserRegistered,
		UserID:    user.ID.Hex(),
		Email:     user.Email,
		Name:      user.Name,
		Timestamp: s.now(),
	})

	return s.issueTokens(ctx, user, "Registered Successfully")
}

// Login проверяет email и пароль
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	return s.issueTokens(ctx, user, "Welcome back "+user.Name)
}

// RefreshTokens обменивает refresh токен на новую пару; старый токен удаляется
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*entity.AuthResponse, error) {
	userID, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to delete refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapUserError("get user", err)
	}

	return s.issueTokens(ctx, user, "")
}

// Logout отзывает access токен до его истечения и удаляет refresh токены пользователя
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err != nil {
		// Токен уже невалиден, отзывать нечего
		return nil
	}

	if err := s.tokenRepo.AddToBlacklist(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, claims.UserID); err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}

	return nil
}

// ValidateToken проверяет подпись, срок и черный список
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*util.JWTClaims, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	blacklisted, err := s.tokenRepo.IsBlacklisted(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return nil, ErrTokenBlacklisted
	}

	return claims, nil
}

// ForgotPassword выдает токен восстановления и публикует PASSWORD_RESET_REQUESTED.
// Письмо со ссылкой отправляет подписчик user_events.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, mapUserError("get user", err)
	}

	token, hashed, err := util.GenerateResetToken()
	if err != nil {
		return nil, err
	}

	user, err = updateUser(ctx, s.userRepo, user, func(u *entity.User) error {
		expire := s.now().Add(ResetTokenTTL)
		u.ResetPasswordToken = hashed
		u.ResetPasswordExpire = &expire
		return nil
	})
	if err != nil {
		return nil, err
	}

	messaging.PublishEvent(ctx, s.publisher, user.ID.Hex(), entity.UserEvent{
		EventType: entity.EventPasswordResetRequested,
		UserID:    user.ID.Hex(),
		Email:     user.Email,
		Name:      user.Name,
		ResetURL:  fmt.Sprintf("%s/password/reset/%s", s.frontendURL, token),
		Timestamp: s.now(),
	})

	logger.Info().Str("user_id", user.ID.Hex()).Msg("Password reset requested")
	return user, nil
}

// ResetPassword устанавливает новый пароль по токену из ссылки
func (s *AuthService) ResetPassword(ctx context.Context, token string, req *entity.ResetPasswordRequest) error {
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	user, err := s.userRepo.GetByResetToken(ctx, util.HashResetToken(token), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to find reset token: %w", err)
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err = updateUser(ctx, s.userRepo, user, func(u *entity.User) error {
		u.PasswordHash = passwordHash
		u.ClearPasswordReset()
		return nil
	})
	if err != nil {
		return err
	}

	// Старые сессии после смены пароля недействительны
	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, user.ID.Hex()); err != nil {
		logger.Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("Failed to revoke refresh tokens")
	}

	return nil
}

// UpdatePassword смена пароля авторизованным пользователем; выдает новые токены
func (s *AuthService) UpdatePassword(ctx context.Context, userID string, req *entity.UpdatePasswordRequest) (*entity.AuthResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapUserError("get user", err)
	}

	if !util.CheckPassword(req.OldPassword, user.PasswordHash) {
		return nil, ErrWrongOldPassword
	}
	if req.NewPassword != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	passwordHash, err := util.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err = updateUser(ctx, s.userRepo, user, func(u *entity.User) error {
		u.PasswordHash = passwordHash
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, userID); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to revoke refresh tokens")
	}

	return s.issueTokens(ctx, user, "Password Updated Successfully")
}

// issueTokens генерирует access и refresh токены и сохраняет refresh в Redis
func (s *AuthService) issueTokens(ctx context.Context, user *entity.User, message string) (*entity.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.jwtManager.GetRefreshTokenDuration())
	if err := s.tokenRepo.SaveRefreshToken(ctx, user.ID.Hex(), refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()

	return &entity.AuthResponse{
		Success:      true,
		Message:      message,
		User:         user,
		Token:        accessToken,
		RefreshToken: refreshToken,
	}, nil
}
