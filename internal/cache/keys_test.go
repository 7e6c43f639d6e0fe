package cache

// Тесты построения ключей кэша (internal/cache/keys.go).
//
// Проверяем:
//  - детерминированность: порядок параметров не влияет на ключ;
//  - различимость: разные запросы дают разные ключи;
//  - нормализацию: пустые значения выбрасываются, пробелы обрезаются;
//  - экранирование спецсимволов в значениях.

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListKey_Deterministic(t *testing.T) {
	a := ListKey(map[string]string{"author": "u1", "page": "2", "tag": "go"})
	b := ListKey(map[string]string{"tag": "go", "author": "u1", "page": "2"})

	require.Equal(t, a, b)
}

func TestListKey_DistinctQueries(t *testing.T) {
	keys := []string{
		ListKey(nil),
		ListKey(map[string]string{"author": "u1"}),
		ListKey(map[string]string{"author": "u2"}),
		ListKey(map[string]string{"author": "u1", "tag": "go"}),
		ListKey(map[string]string{"tag": "go"}),
		ListKey(map[string]string{"page": "2"}),
	}

	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		_, dup := seen[k]
		require.False(t, dup, "key collision: %s", k)
		seen[k] = struct{}{}
	}
}

func TestListKey_EmptyParams(t *testing.T) {
	require.Equal(t, nsPostList, ListKey(nil))
	require.Equal(t, nsPostList, ListKey(map[string]string{}))
	require.Equal(t, nsPostList, ListKey(map[string]string{"tag": "  ", "author": ""}))
}

func TestListKey_Normalization(t *testing.T) {
	require.Equal(t,
		ListKey(map[string]string{"tag": "go"}),
		ListKey(map[string]string{"tag": "  go  "}),
	)
}

func TestListKey_EscapesValues(t *testing.T) {
	a := ListKey(map[string]string{"tag": "a&b"})
	b := ListKey(map[string]string{"tag": "a", "b": ""})

	require.NotEqual(t, a, b)
	require.NotContains(t, a, "a&b")
}

func TestUserPostsKey(t *testing.T) {
	require.Equal(t, "posts:user:u1", UserPostsKey("u1"))
	require.NotEqual(t, UserPostsKey("u1"), UserPostsKey("u2"))
}
