package service

import (
	"context"
	"errors"

	"shopkart/auth-service/internal/app/auth/entity"
	"shopkart/auth-service/internal/app/auth/repository"
)

// maxWriteAttempts сколько раз перечитывать пользователя при конфликте версий
const maxWriteAttempts = 3

// updateUser применяет apply к пользователю и сохраняет его compare-and-swap'ом.
// Первая попытка использует уже прочитанного user; при конфликте версий
// пользователь перечитывается и apply выполняется заново.
func updateUser(
	ctx context.Context,
	repo repository.UserRepository,
	user *entity.User,
	apply func(u *entity.User) error,
) (*entity.User, error) {
	id := user.ID.Hex()

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		if attempt > 1 {
			fresh, err := repo.GetByID(ctx, id)
			if err != nil {
				return nil, mapUserError("reload user", err)
			}
			user = fresh
		}

		if err := apply(user); err != nil {
			return nil, err
		}

		err := repo.Update(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, mapUserError("save user", err)
		}
	}

	return nil, ErrConcurrentUpdate
}
