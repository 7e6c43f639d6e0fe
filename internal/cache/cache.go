// cache реализует кэш-слой сервиса поверх Redis: низкоуровневый клиент
// хранилища (Store), read-through кэш выборок (Cache) и денайлист
// access-токенов (Denylist).
//
// Основные аспекты:
//   - Redis не является источником истины: потеря всего кэша означает
//     холодный старт и временную невозможность досрочного отзыва уже
//     выпущенных access-токенов, но не потерю данных;
//   - все операции ограничены дедлайном вызывающего контекста; отдельный
//     короткий таймаут кэша навешивает Cache/Denylist, а не Store;
//   - Store потокобезопасен: go-redis клиент разделяется между хендлерами.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store — минимальный контракт key-value хранилища с TTL.
type Store interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set сохраняет значение с TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Del удаляет ключ. Отсутствие ключа не является ошибкой.
	Del(ctx context.Context, key string) error
	// Close закрывает клиент.
	Close() error
}

type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// prefix — namespace всех ключей сервиса; пустой заменяется на "blog:".
func NewRedisStore(redisURL, prefix string) (Store, error) {
	if prefix == "" {
		prefix = "blog:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisStore{rdb: rdb, prefix: prefix}, nil
}

func (s *redisStore) key(k string) string { return s.prefix + k }

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return val, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key(key), value, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

func (s *redisStore) Close() error { return s.rdb.Close() }
