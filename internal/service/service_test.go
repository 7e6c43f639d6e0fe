package service

// Общие помощники тестов сервисного слоя.
//
// Подготовка окружения:
//   # 1) Сгенерировать моки интерфейса хранилища:
//   mockgen -source=./internal/storage/storage.go -destination=./mocks/storage.go -package=mocks
//
//   # 2) Запустить тесты:
//   go test ./internal/service -v -race -count=1

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/anshul4117/Blog/internal/cache"
	"github.com/anshul4117/Blog/internal/config"
	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/storage"
	"github.com/anshul4117/Blog/mocks"
)

var errStore = errors.New("store unavailable")

// stubStore — потокобезопасный cache.Store в памяти.
type stubStore struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration

	getCalls int
	failGet  bool
	failSet  bool
}

func newStubStore() *stubStore {
	return &stubStore{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (s *stubStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getCalls++
	if s.failGet {
		return nil, false, errStore
	}

	val, ok := s.data[key]
	return val, ok, nil
}

func (s *stubStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSet {
		return errStore
	}

	s.data[key] = append([]byte(nil), value...)
	s.ttls[key] = ttl
	return nil
}

func (s *stubStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	delete(s.ttls, key)
	return nil
}

func (s *stubStore) Close() error { return nil }

func (s *stubStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.data))
	for k := range s.data {
		out = append(out, k)
	}
	return out
}

func (s *stubStore) ttlOf(key string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ttl, ok := s.ttls[key]
	return ttl, ok
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
		Issuer:          "blog-service",
		Audience:        []string{"blog-web"},
	}
}

// newTestService собирает Service поверх мок-хранилища и stub-кэша.
func newTestService(t *testing.T, cfg config.AuthConfig) (*Service, *mocks.MockStorage, *stubStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockStorage(ctrl)
	store := newStubStore()

	svc := New(st, cfg,
		cache.New(store, 30*time.Minute, 0),
		cache.NewDenylist(store, 0),
	)

	return svc, st, store
}

// refreshDB — реальное поведение хранилища refresh-токенов поверх мока:
// уникальность по хэшу, удаление с признаком существования.
type refreshDB struct {
	mu sync.Mutex
	m  map[string]models.RefreshToken
}

func wireRefreshStorage(st *mocks.MockStorage) *refreshDB {
	db := &refreshDB{m: make(map[string]models.RefreshToken)}

	st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, token *models.RefreshToken) error {
			db.mu.Lock()
			defer db.mu.Unlock()

			if _, ok := db.m[token.RefreshTokenHash]; ok {
				return storage.ErrAlreadyExists
			}
			db.m[token.RefreshTokenHash] = *token
			return nil
		})

	st.EXPECT().RefreshTokenByHash(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, hash string) (*models.RefreshToken, error) {
			db.mu.Lock()
			defer db.mu.Unlock()

			token, ok := db.m[hash]
			if !ok {
				return nil, storage.ErrNotFound
			}
			return &token, nil
		})

	st.EXPECT().DeleteRefreshToken(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, hash string) (bool, error) {
			db.mu.Lock()
			defer db.mu.Unlock()

			_, ok := db.m[hash]
			delete(db.m, hash)
			return ok, nil
		})

	return db
}

func (db *refreshDB) len() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.m)
}

func (db *refreshDB) expireAll(at time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for hash, token := range db.m {
		token.ExpiresAt = at
		db.m[hash] = token
	}
}

func testUser(passwordHash string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:           "u1",
		Email:        "user@example.com",
		Username:     "user1",
		Name:         "User One",
		Role:         "user",
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
