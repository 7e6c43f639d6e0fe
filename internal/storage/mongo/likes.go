package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

func likeFilter(userID, targetID, targetType string) bson.D {
	return bson.D{
		{Key: "user_id", Value: userID},
		{Key: "target_id", Value: targetID},
		{Key: "target_type", Value: targetType},
	}
}

// SaveLike создаёт лайк. Повторный лайк той же цели ловится уникальным
// индексом и маппится в storage.ErrAlreadyExists.
func (m *Mongo) SaveLike(ctx context.Context, like *models.Like) error {
	const op = "storage/mongo/SaveLike"

	if _, err := m.likes.InsertOne(ctx, like); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: insert: %w", op, err)
	}

	return nil
}

// DeleteLike удаляет лайк; true — если лайк существовал.
func (m *Mongo) DeleteLike(ctx context.Context, userID, targetID, targetType string) (bool, error) {
	const op = "storage/mongo/DeleteLike"

	res, err := m.likes.DeleteOne(ctx, likeFilter(userID, targetID, targetType))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount > 0, nil
}

// LikeCount — число лайков цели, источник истины для любого кэша.
func (m *Mongo) LikeCount(ctx context.Context, targetID, targetType string) (int64, error) {
	const op = "storage/mongo/LikeCount"

	count, err := m.likes.CountDocuments(ctx, bson.D{
		{Key: "target_id", Value: targetID},
		{Key: "target_type", Value: targetType},
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// HasLike — лайкал ли пользователь цель.
func (m *Mongo) HasLike(ctx context.Context, userID, targetID, targetType string) (bool, error) {
	const op = "storage/mongo/HasLike"

	err := m.likes.FindOne(ctx, likeFilter(userID, targetID, targetType)).Err()
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return false, nil
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}
