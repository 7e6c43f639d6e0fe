package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/storage"
)

// Лимиты длины полей профиля (в рунах).
const (
	maxProfileNameLen = 50
	maxProfileBioLen  = 100
)

// UpdateProfile применяет частичное обновление профиля пользователя.
// nil-поле не трогается; переданное имя нормализуется и не может быть пустым.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserSummary, error) {
	const op = "service.users.UpdateProfile"

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" || len([]rune(name)) > maxProfileNameLen {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidProfile)
		}
		upd.Name = &name
	}

	if upd.Bio != nil {
		bio := strings.TrimSpace(*upd.Bio)
		if len([]rune(bio)) > maxProfileBioLen {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidProfile)
		}
		upd.Bio = &bio
	}

	user, err := s.storage.UpdateUserProfile(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary := user.Summary()
	return &summary, nil
}

// ChangePassword меняет пароль аутентифицированного пользователя.
// Старый пароль обязан совпасть с текущим хэшем; новый проходит ту же
// политику сложности, что и при регистрации, и не может повторять старый.
// Уже выпущенные токены не отзываются: access доживает короткий срок,
// refresh-записи остаются валидными до ротации или logout.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	const op = "service.users.ChangePassword"

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, oldPassword) {
		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if newPassword == oldPassword {
		return fmt.Errorf("%s: %w", op, ErrSamePassword)
	}

	if err := validatePassword(newPassword); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateUserPassword(ctx, userID, hash); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListUsers возвращает страницу публичных выжимок профилей.
// Чувствительные поля (хэш пароля) наружу не выходят.
func (s *Service) ListUsers(ctx context.Context, page, limit int64) ([]models.UserSummary, error) {
	const op = "service.users.ListUsers"

	users, err := s.storage.ListUsers(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}

	return summaries, nil
}
