package cache

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"time"
)

const denylistPrefix = "denylist:"

// Denylist — кэш-денайлист access-токенов, отозванных до естественного
// истечения. Ключ — sha256-хэш значения токена (сам JWT в Redis не кладём),
// присутствие ключа означает отзыв.
//
// TTL записи равен остаточному времени жизни токена: запись никогда не
// переживает то, что охраняет, и не требует ручной очистки.
type Denylist struct {
	store   Store
	timeout time.Duration
}

// NewDenylist создаёт денайлист поверх Store.
func NewDenylist(store Store, timeout time.Duration) *Denylist {
	return &Denylist{store: store, timeout: timeout}
}

func (d *Denylist) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, d.timeout)
}

func denylistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return denylistPrefix + base64.RawURLEncoding.EncodeToString(sum[:])
}

// Add помещает токен в денайлист на ttl (остаточное время жизни токена).
// Токен с неположительным остатком уже мёртв — запись не нужна.
func (d *Denylist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	return d.store.Set(opCtx, denylistKey(token), []byte("1"), ttl)
}

// Contains сообщает, отозван ли токен.
// Ошибка возвращается отдельно: решение о деградации (fail-open/fail-closed)
// принимает вызывающая сторона.
func (d *Denylist) Contains(ctx context.Context, token string) (bool, error) {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	_, ok, err := d.store.Get(opCtx, denylistKey(token))
	if err != nil {
		return false, err
	}

	return ok, nil
}
