package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anshul4117/Blog/internal/cache"
	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/pkg/log"
	"github.com/anshul4117/Blog/internal/storage"
)

// Статусы результата ToggleLike.
const (
	LikeStatusLiked   = "liked"
	LikeStatusUnliked = "unliked"
)

// ToggleLike ставит или снимает лайк цели и возвращает итоговый статус.
//
// Гонка двух конкурентных переключений решается на уникальном индексе:
// вставка либо проходит, либо падает дубликатом — тогда это unlike.
// Кэшированный счётчик в агрегате автора правится инкрементальным патчем;
// потерянное из-за гонки обновление кэша допустимо, счётчик всегда
// пересчитывается из записей лайков при следующей полной загрузке.
func (s *Service) ToggleLike(ctx context.Context, userID, targetID, targetType string) (string, error) {
	const op = "service.likes.ToggleLike"

	if targetType != models.LikeTargetPost && targetType != models.LikeTargetComment {
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	// Для постов цель проверяется и используется для адресации кэша автора.
	var authorID string
	if targetType == models.LikeTargetPost {
		post, err := s.storage.PostByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return "", fmt.Errorf("%s: %w", op, ErrNotFound)
			}

			return "", fmt.Errorf("%s: %w", op, err)
		}
		authorID = post.AuthorID
	}

	like := &models.Like{
		ID:         uuid.NewString(),
		UserID:     userID,
		TargetID:   targetID,
		TargetType: targetType,
		CreatedAt:  time.Now().UTC(),
	}

	status := LikeStatusLiked
	if err := s.storage.SaveLike(ctx, like); err != nil {
		if !errors.Is(err, storage.ErrAlreadyExists) {
			return "", fmt.Errorf("%s: %w", op, err)
		}

		deleted, err := s.storage.DeleteLike(ctx, userID, targetID, targetType)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if !deleted {
			// Конкурентный unlike успел раньше; считаем лайк снятым.
			log.From(ctx).Debug("like_toggle_race", slog.String("op", op))
		}

		status = LikeStatusUnliked
	}

	if authorID != "" {
		delta := int64(1)
		if status == LikeStatusUnliked {
			delta = -1
		}

		err := s.cache.PatchCounter(ctx, cache.UserPostsKey(authorID), targetID, "likeCount", delta)
		if err != nil {
			log.From(ctx).Warn("like_cache_patch_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	return status, nil
}

// LikeStatus возвращает число лайков цели и признак лайка запросившего
// пользователя. Значения читаются из источника истины.
func (s *Service) LikeStatus(ctx context.Context, userID, targetID, targetType string) (*models.LikeStatus, error) {
	const op = "service.likes.LikeStatus"

	count, err := s.storage.LikeCount(ctx, targetID, targetType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	isLiked := false
	if userID != "" {
		isLiked, err = s.storage.HasLike(ctx, userID, targetID, targetType)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &models.LikeStatus{Count: count, IsLiked: isLiked}, nil
}
