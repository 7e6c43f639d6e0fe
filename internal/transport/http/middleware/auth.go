package middleware

import (
	"context"
	"net/http"
	"strings"

	apierrors "github.com/anshul4117/Blog/internal/errors"
	"github.com/anshul4117/Blog/internal/service"
)

type claimsKey struct{}

// Authorizer — контракт проверки access-токена (реализуется service.Service).
type Authorizer interface {
	Authorize(ctx context.Context, accessToken string) (*service.Claims, error)
}

// AuthRequired — пер-запросный шлюз авторизации: извлекает Bearer-токен,
// проверяет его через Authorizer (подпись+срок, затем денайлист) и кладёт
// утверждения в контекст. Любой отказ — единый 401 без деталей.
func AuthRequired(auth Authorizer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				apierrors.WriteError(w, r, service.ErrInvalidToken)
				return
			}

			claims, err := auth.Authorize(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom достаёт утверждения авторизованного пользователя из контекста.
func ClaimsFrom(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*service.Claims)
	return claims, ok && claims != nil
}

// BearerToken извлекает токен из заголовка Authorization.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}
