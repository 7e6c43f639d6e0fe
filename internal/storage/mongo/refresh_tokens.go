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
)

// SaveRefreshToken сохраняет новую запись refresh-токена.
// _id — хэш значения, поэтому коллизия по хэшу превращается в
// storage.ErrAlreadyExists (вызывающая сторона перегенерирует секрет).
func (m *Mongo) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const op = "storage/mongo/SaveRefreshToken"

	if _, err := m.refreshTokens.InsertOne(ctx, token); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: insert: %w", op, err)
	}

	return nil
}

// RefreshTokenByHash находит запись refresh-токена по хэшу значения.
func (m *Mongo) RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	const op = "storage/mongo/RefreshTokenByHash"

	var token models.RefreshToken
	if err := m.refreshTokens.FindOne(ctx, bson.D{{Key: "_id", Value: hash}}).Decode(&token); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &token, nil
}

// DeleteRefreshToken удаляет запись по хэшу.
// (false, nil) означает, что записи уже не было: ровно один конкурентный
// вызов получает true — на этом строится ротация.
func (m *Mongo) DeleteRefreshToken(ctx context.Context, hash string) (bool, error) {
	const op = "storage/mongo/DeleteRefreshToken"

	res, err := m.refreshTokens.DeleteOne(ctx, bson.D{{Key: "_id", Value: hash}})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return res.DeletedCount > 0, nil
}

// DeleteExpiredTokens удаляет все просроченные записи.
// Дублирует TTL-индекс: Mongo чистит фоном с задержкой, janitor даёт
// предсказуемую верхнюю границу.
func (m *Mongo) DeleteExpiredTokens(ctx context.Context, now time.Time) error {
	const op = "storage/mongo/DeleteExpiredTokens"

	_, err := m.refreshTokens.DeleteMany(ctx, bson.D{
		{Key: "expires_at", Value: bson.D{{Key: "$lte", Value: now.UTC()}}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
