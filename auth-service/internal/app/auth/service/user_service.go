package service

import (
	"context"
	"fmt"

	"shopkart/auth-service/internal/app/auth/entity"
	"shopkart/auth-service/internal/app/auth/repository"
)

// UserService профиль пользователя и администрирование учетных записей
type UserService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
}

func NewUserService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// GetUser получает пользователя по ID
func (s *UserService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserError("get user", err)
	}
	return user, nil
}

// UpdateProfile меняет имя и email; пустые поля остаются прежними
func (s *UserService) UpdateProfile(ctx context.Context, id string, req *entity.UpdateProfileRequest) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserError("get user", err)
	}

	return updateUser(ctx, s.userRepo, user, func(u *entity.User) error {
		if req.Name != "" {
			u.Name = req.Name
		}
		if req.Email != "" {
			u.Email = req.Email
		}
		return nil
	})
}

// ListUsers все пользователи (admin)
func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ToggleRole переключает роль user <-> admin (admin)
func (s *UserService) ToggleRole(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserError("get user", err)
	}

	return updateUser(ctx, s.userRepo, user, func(u *entity.User) error {
		u.ToggleRole()
		return nil
	})
}

// DeleteUser удаляет пользователя и его refresh токены (admin)
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return mapUserError("delete user", err)
	}

	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, id); err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}

	return nil
}
