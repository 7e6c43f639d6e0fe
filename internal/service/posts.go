package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshul4117/Blog/internal/cache"
	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/pkg/log"
	"github.com/anshul4117/Blog/internal/storage"
)

// listKeyFor строит канонический ключ выборки ленты: нулевые значения
// не попадают в ключ, поэтому "дефолтная лента" всегда один и тот же ключ.
func listKeyFor(query models.PostQuery) string {
	params := map[string]string{}
	if query.AuthorID != "" {
		params["author"] = query.AuthorID
	}
	if query.Tag != "" {
		params["tag"] = query.Tag
	}
	if query.Page > 1 {
		params["page"] = strconv.FormatInt(query.Page, 10)
	}
	if query.Limit > 0 {
		params["limit"] = strconv.FormatInt(query.Limit, 10)
	}

	return cache.ListKey(params)
}

// CreatePost создаёт публикацию и инвалидирует задетые выборки.
func (s *Service) CreatePost(ctx context.Context, authorID, title, content string, tags []string, published bool) (*models.Post, error) {
	const op = "service.posts.CreatePost"

	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyContent)
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SavePost(ctx, post); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidatePostCaches(ctx, authorID)

	return post, nil
}

// UpdatePost обновляет публикацию автора.
func (s *Service) UpdatePost(ctx context.Context, post *models.Post) error {
	const op = "service.posts.UpdatePost"

	if err := s.storage.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidatePostCaches(ctx, post.AuthorID)

	return nil
}

// DeletePost удаляет публикацию автора.
func (s *Service) DeletePost(ctx context.Context, id, authorID string) error {
	const op = "service.posts.DeletePost"

	deleted, err := s.storage.DeletePost(ctx, id, authorID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !deleted {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	s.invalidatePostCaches(ctx, authorID)

	return nil
}

// PostByID возвращает публикацию.
func (s *Service) PostByID(ctx context.Context, id string) (*models.Post, error) {
	const op = "service.posts.PostByID"

	post, err := s.storage.PostByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

// ListPosts возвращает ленту публикаций через read-through кэш.
// Ошибки кэша внутри GetCached деградируют до промаха; ошибка здесь —
// это ошибка источника истины.
func (s *Service) ListPosts(ctx context.Context, query models.PostQuery) ([]models.Post, error) {
	const op = "service.posts.ListPosts"

	posts, fromCache, err := cache.GetCached(ctx, s.cache, listKeyFor(query),
		func(ctx context.Context) ([]models.Post, error) {
			return s.storage.ListPosts(ctx, query)
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if fromCache {
		log.From(ctx).Debug("posts_cache_hit", slog.String("op", op))
	}

	return posts, nil
}

// MyPosts возвращает посты автора с производными счётчиками лайков через
// read-through кэш пер-пользовательского агрегата.
func (s *Service) MyPosts(ctx context.Context, authorID string) ([]models.PostWithLikes, error) {
	const op = "service.posts.MyPosts"

	posts, fromCache, err := cache.GetCached(ctx, s.cache, cache.UserPostsKey(authorID),
		func(ctx context.Context) ([]models.PostWithLikes, error) {
			return s.storage.PostsWithLikesByAuthor(ctx, authorID)
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if fromCache {
		log.From(ctx).Debug("my_posts_cache_hit", slog.String("op", op))
	}

	return posts, nil
}

// invalidatePostCaches сносит выборки, задетые структурным изменением
// публикаций: дефолтную ленту и агрегат автора. Параметризованные варианты
// ленты доживают свой TTL — принятое окно ограниченной устарелости.
// Недоступность кэша не проваливает мутацию: ошибка только логируется.
func (s *Service) invalidatePostCaches(ctx context.Context, authorID string) {
	const op = "service.posts.invalidatePostCaches"

	err := s.cache.Invalidate(ctx,
		cache.ListKey(nil),
		cache.UserPostsKey(authorID),
	)
	if err != nil {
		log.From(ctx).Warn("cache_invalidate_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}
}
