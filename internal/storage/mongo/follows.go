package mongo

import (
	"context"
	"fmt"

	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// SaveFollow создаёт подписку. Повторная подписка ловится уникальным
// индексом и маппится в storage.ErrAlreadyExists.
func (m *Mongo) SaveFollow(ctx context.Context, follow *models.Follow) error {
	const op = "storage/mongo/SaveFollow"

	if _, err := m.follows.InsertOne(ctx, follow); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: insert: %w", op, err)
	}

	return nil
}

// DeleteFollow удаляет подписку; true — если она существовала.
func (m *Mongo) DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	const op = "storage/mongo/DeleteFollow"

	res, err := m.follows.DeleteOne(ctx, bson.D{
		{Key: "follower_id", Value: followerID},
		{Key: "following_id", Value: followingID},
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount > 0, nil
}

// FollowCounts — число подписчиков и подписок пользователя.
func (m *Mongo) FollowCounts(ctx context.Context, userID string) (models.FollowCounts, error) {
	const op = "storage/mongo/FollowCounts"

	followers, err := m.follows.CountDocuments(ctx, bson.D{{Key: "following_id", Value: userID}})
	if err != nil {
		return models.FollowCounts{}, fmt.Errorf("%s: followers: %w", op, err)
	}

	following, err := m.follows.CountDocuments(ctx, bson.D{{Key: "follower_id", Value: userID}})
	if err != nil {
		return models.FollowCounts{}, fmt.Errorf("%s: following: %w", op, err)
	}

	return models.FollowCounts{Followers: followers, Following: following}, nil
}

var _ storage.Storage = (*Mongo)(nil)
