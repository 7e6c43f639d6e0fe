package http

// Сквозные тесты HTTP-слоя: реальный роутер + сервис поверх мок-хранилища.
//
// Проверяем:
//  - полный цикл login -> защищённый роут -> logout -> единый 401;
//  - ротацию refresh-токена через POST /auth/refresh;
//  - публичные и защищённые роуты, строгий разбор JSON;
//  - формат конвертов ответов и ошибок.

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/anshul4117/Blog/internal/cache"
	"github.com/anshul4117/Blog/internal/config"
	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/service"
	"github.com/anshul4117/Blog/internal/storage"
	"github.com/anshul4117/Blog/mocks"
)

// memStore — cache.Store в памяти для сквозных тестов.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.data[key]
	return val, ok, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *memStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memStore) Close() error { return nil }

type testEnv struct {
	router http.Handler
	st     *mocks.MockStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockStorage(ctrl)
	store := &memStore{data: make(map[string][]byte)}

	cfg := config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
		Issuer:          "blog-service",
		Audience:        []string{"blog-web"},
	}

	svc := service.New(st, cfg,
		cache.New(store, 30*time.Minute, 0),
		cache.NewDenylist(store, 0),
	)

	router := NewRouter(svc, Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:  2 * time.Second,
		BasePath: "/api",
	})

	return &testEnv{router: router, st: st}
}

// wireRefreshStorage даёт мок-хранилищу реальное поведение записей
// refresh-токенов: уникальность по хэшу и удаление с признаком.
func (e *testEnv) wireRefreshStorage() {
	tokens := struct {
		sync.Mutex
		m map[string]models.RefreshToken
	}{m: make(map[string]models.RefreshToken)}

	e.st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, token *models.RefreshToken) error {
			tokens.Lock()
			defer tokens.Unlock()
			if _, ok := tokens.m[token.RefreshTokenHash]; ok {
				return storage.ErrAlreadyExists
			}
			tokens.m[token.RefreshTokenHash] = *token
			return nil
		})
	e.st.EXPECT().RefreshTokenByHash(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, hash string) (*models.RefreshToken, error) {
			tokens.Lock()
			defer tokens.Unlock()
			token, ok := tokens.m[hash]
			if !ok {
				return nil, storage.ErrNotFound
			}
			return &token, nil
		})
	e.st.EXPECT().DeleteRefreshToken(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, hash string) (bool, error) {
			tokens.Lock()
			defer tokens.Unlock()
			_, ok := tokens.m[hash]
			delete(tokens.m, hash)
			return ok, nil
		})
}

func (e *testEnv) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

type authEnvelope struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func seedUser(t *testing.T, e *testEnv, email, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	return &models.User{
		ID: "u1", Email: email, Username: "user1", Name: "User One",
		Role: "user", PasswordHash: string(hash), CreatedAt: now, UpdatedAt: now,
	}
}

func TestRouter_LoginLogoutFlow(t *testing.T) {
	e := newTestEnv(t)
	e.wireRefreshStorage()

	const password = "Str0ng!pass"
	user := seedUser(t, e, "user@example.com", password)
	e.st.EXPECT().UserByEmail(gomock.Any(), user.Email).Return(user, nil)
	e.st.EXPECT().PostsWithLikesByAuthor(gomock.Any(), user.ID).
		Return([]models.PostWithLikes{}, nil).AnyTimes()

	// Login.
	rr := e.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": user.Email, "password": password})
	require.Equal(t, http.StatusOK, rr.Code)

	var auth authEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &auth))
	require.NotEmpty(t, auth.AccessToken)
	require.NotEmpty(t, auth.RefreshToken)
	require.Equal(t, user.ID, auth.User.ID)

	// Защищённый роут с токеном.
	rr = e.do(t, http.MethodGet, "/api/my/posts", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// Logout.
	rr = e.do(t, http.MethodPost, "/api/auth/logout", auth.AccessToken,
		map[string]string{"refreshToken": auth.RefreshToken})
	require.Equal(t, http.StatusOK, rr.Code)

	// Отозванный access-токен: единый 401 без деталей.
	rr = e.do(t, http.MethodGet, "/api/my/posts", auth.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), `"unauthenticated"`)

	// Ротированный refresh-токен мёртв.
	rr = e.do(t, http.MethodPost, "/api/auth/refresh", "",
		map[string]string{"refreshToken": auth.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_RefreshRotation(t *testing.T) {
	e := newTestEnv(t)
	e.wireRefreshStorage()

	const password = "Str0ng!pass"
	user := seedUser(t, e, "user@example.com", password)
	e.st.EXPECT().UserByEmail(gomock.Any(), user.Email).Return(user, nil)
	e.st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil).AnyTimes()

	rr := e.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": user.Email, "password": password})
	require.Equal(t, http.StatusOK, rr.Code)

	var first authEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))

	// Первое обновление — новая пара.
	rr = e.do(t, http.MethodPost, "/api/auth/refresh", "",
		map[string]string{"refreshToken": first.RefreshToken})
	require.Equal(t, http.StatusOK, rr.Code)

	var second authEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &second))
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Повторное предъявление первого значения.
	rr = e.do(t, http.MethodPost, "/api/auth/refresh", "",
		map[string]string{"refreshToken": first.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// Второе значение остаётся рабочим.
	rr = e.do(t, http.MethodPost, "/api/auth/refresh", "",
		map[string]string{"refreshToken": second.RefreshToken})
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_PublicRoutes(t *testing.T) {
	e := newTestEnv(t)

	e.st.EXPECT().ListPosts(gomock.Any(), gomock.Any()).
		Return([]models.Post{{ID: "p1", AuthorID: "u1", Title: "T", Published: true}}, nil)

	rr := e.do(t, http.MethodGet, "/api/posts?tag=go", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Length int           `json:"length"`
		Posts  []models.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Length)
	require.Equal(t, "p1", resp.Posts[0].ID)
}

func TestRouter_ProtectedWithoutToken(t *testing.T) {
	e := newTestEnv(t)

	for _, tc := range []struct{ method, target string }{
		{http.MethodPost, "/api/posts"},
		{http.MethodGet, "/api/my/posts"},
		{http.MethodPatch, "/api/my/profile"},
		{http.MethodPost, "/api/my/password"},
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodPost, "/api/likes/toggle"},
		{http.MethodPost, "/api/users/u2/follow"},
	} {
		rr := e.do(t, tc.method, tc.target, "", nil)
		require.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.target)
		require.Contains(t, rr.Body.String(), `"unauthenticated"`)
	}
}

func TestRouter_UpdateProfile(t *testing.T) {
	e := newTestEnv(t)
	e.wireRefreshStorage()

	const password = "Str0ng!pass"
	user := seedUser(t, e, "user@example.com", password)
	e.st.EXPECT().UserByEmail(gomock.Any(), user.Email).Return(user, nil)

	renamed := *user
	renamed.Name = "Renamed"
	renamed.Bio = "hello"
	e.st.EXPECT().UpdateUserProfile(gomock.Any(), user.ID, gomock.Any()).Return(&renamed, nil)

	rr := e.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": user.Email, "password": password})
	require.Equal(t, http.StatusOK, rr.Code)

	var auth authEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &auth))

	rr = e.do(t, http.MethodPatch, "/api/my/profile", auth.AccessToken,
		map[string]string{"name": "Renamed", "bio": "hello"})
	require.Equal(t, http.StatusOK, rr.Code)

	var summary struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	require.Equal(t, user.ID, summary.ID)
	require.Equal(t, "Renamed", summary.Name)
}

func TestRouter_ChangePassword(t *testing.T) {
	e := newTestEnv(t)
	e.wireRefreshStorage()

	const password = "Str0ng!pass"
	user := seedUser(t, e, "user@example.com", password)
	e.st.EXPECT().UserByEmail(gomock.Any(), user.Email).Return(user, nil)
	e.st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil).AnyTimes()

	rr := e.do(t, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": user.Email, "password": password})
	require.Equal(t, http.StatusOK, rr.Code)

	var auth authEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &auth))

	// Несовпадение подтверждения — 400 до обращения к хранилищу.
	rr = e.do(t, http.MethodPost, "/api/my/password", auth.AccessToken, map[string]string{
		"oldPassword": password, "newPassword": "N3w!passw0rd", "confirmPassword": "Other!pass1",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), `"invalid_argument"`)

	// Неверный старый пароль — единый 401.
	rr = e.do(t, http.MethodPost, "/api/my/password", auth.AccessToken, map[string]string{
		"oldPassword": "Wr0ng!pass", "newPassword": "N3w!passw0rd", "confirmPassword": "N3w!passw0rd",
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), `"unauthenticated"`)

	// Успешная смена.
	e.st.EXPECT().UpdateUserPassword(gomock.Any(), user.ID, gomock.Any()).Return(nil)
	rr = e.do(t, http.MethodPost, "/api/my/password", auth.AccessToken, map[string]string{
		"oldPassword": password, "newPassword": "N3w!passw0rd", "confirmPassword": "N3w!passw0rd",
	})
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_ListUsers(t *testing.T) {
	e := newTestEnv(t)

	now := time.Now().UTC()
	e.st.EXPECT().ListUsers(gomock.Any(), int64(0), int64(2)).Return([]models.User{
		{ID: "u1", Email: "a@example.com", Username: "a", Name: "A", Role: "user",
			PasswordHash: "secret-hash", CreatedAt: now, UpdatedAt: now},
		{ID: "u2", Email: "b@example.com", Username: "b", Name: "B", Role: "user",
			PasswordHash: "secret-hash", CreatedAt: now, UpdatedAt: now},
	}, nil)

	rr := e.do(t, http.MethodGet, "/api/users?limit=2", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Length int `json:"length"`
		Users  []struct {
			ID string `json:"id"`
		} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Length)
	require.Equal(t, "u1", resp.Users[0].ID)

	// Хэш пароля наружу не уходит.
	require.NotContains(t, rr.Body.String(), "secret-hash")
	require.NotContains(t, rr.Body.String(), "password")
}

func TestRouter_StrictJSON(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewReader([]byte(`{"email":"a@b.c","password":"x","extra":1}`)))
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), `"invalid_argument"`)
}

func TestRouter_RequestIDPropagated(t *testing.T) {
	e := newTestEnv(t)

	e.st.EXPECT().UserByID(gomock.Any(), "missing").Return(nil, storage.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/users/missing", nil)
	req.Header.Set("X-Request-Id", "rid-9")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "rid-9", rr.Header().Get("X-Request-Id"))
	require.Contains(t, rr.Body.String(), `"rid-9"`)
}
