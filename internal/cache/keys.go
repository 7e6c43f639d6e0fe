package cache

import (
	"net/url"
	"sort"
	"strings"
)

// Пространства имён ключей. Каждый вид выборки живёт в своём префиксе,
// чтобы структурная инвалидация одной выборки не задевала другие.
const (
	nsPostList  = "posts:list"
	nsUserPosts = "posts:user"
)

// ListKey строит детерминированный ключ выборки по параметрам запроса.
// Параметры нормализуются (trim), сортируются по имени и экранируются,
// поэтому два семантически одинаковых запроса с разным порядком параметров
// дают один ключ, а разные запросы не коллидируют.
func ListKey(params map[string]string) string {
	if len(params) == 0 {
		return nsPostList
	}

	names := make([]string, 0, len(params))
	for name, value := range params {
		if strings.TrimSpace(value) == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nsPostList
	}

	sort.Strings(names)

	var b strings.Builder
	b.WriteString(nsPostList)
	b.WriteByte(':')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(strings.TrimSpace(params[name])))
	}

	return b.String()
}

// UserPostsKey — ключ пер-пользовательского агрегата "мои посты с лайками".
func UserPostsKey(userID string) string {
	return nsUserPosts + ":" + userID
}
