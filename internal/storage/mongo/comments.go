package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveComment создаёт комментарий (корневой или ответ).
// Для ответа проверяет существование родителя в том же посте; replies_count
// родителя инкрементируется после успешной вставки, best-effort.
func (m *Mongo) SaveComment(ctx context.Context, comment *models.Comment) error {
	const op = "storage/mongo/SaveComment"

	if comment.ParentID != "" {
		var parent models.Comment
		err := m.comments.FindOne(ctx, bson.D{
			{Key: "_id", Value: comment.ParentID},
			{Key: "post_id", Value: comment.PostID},
		}).Decode(&parent)
		if err != nil {
			if errors.Is(err, mongodriver.ErrNoDocuments) {
				return fmt.Errorf("%s: parent: %w", op, storage.ErrNotFound)
			}

			return fmt.Errorf("%s: find parent: %w", op, err)
		}
	}

	if _, err := m.comments.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("%s: insert: %w", op, err)
	}

	if comment.ParentID != "" {
		_, _ = m.comments.UpdateByID(ctx, comment.ParentID, bson.D{
			{Key: "$inc", Value: bson.D{{Key: "replies_count", Value: 1}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
		})
	}

	return nil
}

// CommentsByPost возвращает корневые комментарии публикации (новые первыми).
func (m *Mongo) CommentsByPost(ctx context.Context, postID string, limit int64) ([]models.Comment, error) {
	const op = "storage/mongo/CommentsByPost"

	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := m.comments.Find(ctx, bson.D{
		{Key: "post_id", Value: postID},
		{Key: "parent_id", Value: bson.D{{Key: "$in", Value: bson.A{"", nil}}}},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var comments []models.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return comments, nil
}
