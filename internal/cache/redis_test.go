package cache

// Интеграционные тесты Redis-хранилища:
//  - поднимают реальный Redis через testcontainers-go (образ redis:7-alpine);
//  - проверяют контракт Store: промах без ошибки, round-trip, истечение TTL,
//    идемпотентное удаление и изоляцию по префиксу.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/cache -v -race -count=1

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startRedis поднимает временный Redis и возвращает фабрику Store
// с заданным префиксом поверх одного экземпляра.
// Без GO_TEST_INTEGRATION тест пропускается.
func startRedis(t *testing.T) func(prefix string) Store {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}

	redisC, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start redis testcontainer")
	t.Cleanup(func() { _ = redisC.Terminate(context.Background()) })

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	url := fmt.Sprintf("redis://%s:%s/0", host, port.Port())

	return func(prefix string) Store {
		st, err := NewRedisStore(url, prefix)
		require.NoError(t, err, "connect to redis in container (url=%s)", url)
		t.Cleanup(func() { _ = st.Close() })
		return st
	}
}

func TestRedisStore_GetMiss(t *testing.T) {
	st := startRedis(t)("t1:")
	ctx := context.Background()

	val, ok, err := st.Get(ctx, "absent")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, val)
}

func TestRedisStore_SetGetDel(t *testing.T) {
	st := startRedis(t)("t2:")
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "k", []byte(`{"a":1}`), time.Minute))

	val, ok, err := st.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`{"a":1}`), val)

	require.NoError(t, st.Del(ctx, "k"))

	_, ok, err = st.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	// Повторное удаление — не ошибка.
	require.NoError(t, st.Del(ctx, "k"))
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	st := startRedis(t)("t3:")
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "short", []byte("v"), 500*time.Millisecond))

	_, ok, err := st.Get(ctx, "short")
	require.NoError(t, err)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		_, ok, err := st.Get(ctx, "short")
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}

func TestRedisStore_PrefixIsolation(t *testing.T) {
	makeStore := startRedis(t)
	ctx := context.Background()

	a := makeStore("svc-a:")
	b := makeStore("svc-b:")

	require.NoError(t, a.Set(ctx, "shared", []byte("from-a"), time.Minute))

	_, ok, err := b.Get(ctx, "shared")
	require.NoError(t, err)
	require.False(t, ok)

	val, ok, err := a.Get(ctx, "shared")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("from-a"), val)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore("not-a-url", "p:")
	require.Error(t, err)
}
