package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/storage"
)

// Follow подписывает followerID на userID. Повторная подписка идемпотентна.
func (s *Service) Follow(ctx context.Context, followerID, userID string) error {
	const op = "service.follows.Follow"

	if followerID == userID {
		return fmt.Errorf("%s: %w", op, ErrSelfFollow)
	}

	if _, err := s.storage.UserByID(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	follow := &models.Follow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: userID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.storage.SaveFollow(ctx, follow); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Unfollow снимает подписку. Отсутствие подписки не является ошибкой.
func (s *Service) Unfollow(ctx context.Context, followerID, userID string) error {
	const op = "service.follows.Unfollow"

	if _, err := s.storage.DeleteFollow(ctx, followerID, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// FollowCounts возвращает счётчики подписчиков/подписок пользователя.
func (s *Service) FollowCounts(ctx context.Context, userID string) (models.FollowCounts, error) {
	const op = "service.follows.FollowCounts"

	counts, err := s.storage.FollowCounts(ctx, userID)
	if err != nil {
		return models.FollowCounts{}, fmt.Errorf("%s: %w", op, err)
	}

	return counts, nil
}
