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

// SavePost создаёт публикацию.
func (m *Mongo) SavePost(ctx context.Context, post *models.Post) error {
	const op = "storage/mongo/SavePost"

	if _, err := m.posts.InsertOne(ctx, post); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: insert: %w", op, err)
	}

	return nil
}

// PostByID находит публикацию по ID.
func (m *Mongo) PostByID(ctx context.Context, id string) (*models.Post, error) {
	const op = "storage/mongo/PostByID"

	var post models.Post
	if err := m.posts.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&post); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &post, nil
}

// UpdatePost обновляет изменяемые поля публикации автора.
// Фильтр включает author_id: чужой пост обновить нельзя, такая попытка
// неотличима от отсутствия поста.
func (m *Mongo) UpdatePost(ctx context.Context, post *models.Post) error {
	const op = "storage/mongo/UpdatePost"

	res, err := m.posts.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: post.ID}, {Key: "author_id", Value: post.AuthorID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "title", Value: post.Title},
			{Key: "content", Value: post.Content},
			{Key: "tags", Value: post.Tags},
			{Key: "published", Value: post.Published},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeletePost удаляет публикацию автора; true — если она существовала.
func (m *Mongo) DeletePost(ctx context.Context, id, authorID string) (bool, error) {
	const op = "storage/mongo/DeletePost"

	res, err := m.posts.DeleteOne(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "author_id", Value: authorID}},
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount > 0, nil
}

// ListPosts возвращает страницу опубликованных постов (новые первыми).
func (m *Mongo) ListPosts(ctx context.Context, query models.PostQuery) ([]models.Post, error) {
	const op = "storage/mongo/ListPosts"

	filter := bson.D{{Key: "published", Value: true}}
	if query.AuthorID != "" {
		filter = append(filter, bson.E{Key: "author_id", Value: query.AuthorID})
	}
	if query.Tag != "" {
		filter = append(filter, bson.E{Key: "tags", Value: query.Tag})
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}
	page := query.Page
	if page < 1 {
		page = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cur, err := m.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return posts, nil
}

// PostsWithLikesByAuthor возвращает посты автора с производным счётчиком
// лайков. Счётчик считается $lookup-подзапросом по коллекции likes и не
// хранится в документе поста.
func (m *Mongo) PostsWithLikesByAuthor(ctx context.Context, authorID string) ([]models.PostWithLikes, error) {
	const op = "storage/mongo/PostsWithLikesByAuthor"

	pipeline := mongodriver.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "author_id", Value: authorID}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: likesCollection},
			{Key: "let", Value: bson.D{{Key: "post_id", Value: "$_id"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{
					{Key: "$expr", Value: bson.D{
						{Key: "$and", Value: bson.A{
							bson.D{{Key: "$eq", Value: bson.A{"$target_id", "$$post_id"}}},
							bson.D{{Key: "$eq", Value: bson.A{"$target_type", models.LikeTargetPost}}},
						}},
					}},
				}}},
				bson.D{{Key: "$count", Value: "count"}},
			}},
			{Key: "as", Value: "like_data"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "like_count", Value: bson.D{
				{Key: "$ifNull", Value: bson.A{
					bson.D{{Key: "$arrayElemAt", Value: bson.A{"$like_data.count", 0}}},
					0,
				}},
			}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "like_data", Value: 0}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}

	cur, err := m.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%s: aggregate: %w", op, err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var posts []models.PostWithLikes
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return posts, nil
}
