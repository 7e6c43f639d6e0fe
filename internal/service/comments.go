package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/storage"
)

// CreateComment создаёт комментарий к публикации (корневой или ответ).
func (s *Service) CreateComment(ctx context.Context, authorID, postID, parentID, content string) (*models.Comment, error) {
	const op = "service.comments.CreateComment"

	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyContent)
	}

	if _, err := s.storage.PostByID(ctx, postID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	comment := &models.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		ParentID:  strings.TrimSpace(parentID),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SaveComment(ctx, comment); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comment, nil
}

// CommentsByPost возвращает корневые комментарии публикации.
func (s *Service) CommentsByPost(ctx context.Context, postID string, limit int64) ([]models.Comment, error) {
	const op = "service.comments.CommentsByPost"

	comments, err := s.storage.CommentsByPost(ctx, postID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comments, nil
}
