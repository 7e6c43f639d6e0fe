package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache — read-through кэш выборок и пер-пользовательских агрегатов.
//
// Инварианты:
//   - запись в кэше либо является снимком не старше TTL, либо отсутствует;
//   - структурное изменение выборки (создание/удаление сущности) требует
//     полной инвалидации ключа, а не правки на месте;
//   - инкрементальное изменение одного счётчика внутри закэшированного
//     списка правится на месте (PatchCounter) с обновлением TTL;
//   - недоступность кэша никогда не проваливает бизнес-операцию: чтение
//     деградирует до промаха, инвалидация — до no-op с ошибкой для лога.
type Cache struct {
	store   Store
	ttl     time.Duration
	timeout time.Duration
}

// New создаёт Cache поверх Store.
// ttl — окно ограниченной устарелости; timeout — дедлайн одной операции
// с хранилищем (<=0 — без дополнительного дедлайна).
func New(store Store, ttl, timeout time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl, timeout: timeout}
}

// TTL возвращает настроенное окно устарелости.
func (c *Cache) TTL() time.Duration { return c.ttl }

func (c *Cache) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.timeout)
}

// GetCached — read-through чтение: значение из кэша, а при промахе или
// ошибке десериализации — из loader с обратной записью в кэш.
//
// Поведение:
//   - ошибка чтения кэша (включая таймаут) трактуется как промах;
//   - пустой результат loader в кэш не пишется;
//   - ошибка обратной записи не возвращается вызывающему: свежезагруженные
//     данные отдаются всегда;
//   - второй результат — признак "значение пришло из кэша" (для логов).
func GetCached[T any](ctx context.Context, c *Cache, key string, loader func(ctx context.Context) ([]T, error)) ([]T, bool, error) {
	getCtx, cancel := c.opCtx(ctx)
	raw, ok, err := c.store.Get(getCtx, key)
	cancel()

	if err == nil && ok {
		var val []T
		if err := json.Unmarshal(raw, &val); err == nil {
			return val, true, nil
		}
		// Нечитаемая запись равносильна промаху: перезагрузим из БД.
	}

	val, err := loader(ctx)
	if err != nil {
		return nil, false, err
	}

	if len(val) > 0 {
		if raw, err := json.Marshal(val); err == nil {
			setCtx, cancel := c.opCtx(ctx)
			_ = c.store.Set(setCtx, key, raw, c.ttl)
			cancel()
		}
	}

	return val, false, nil
}

// Invalidate полностью удаляет ключ. Best-effort: ошибка возвращается
// только для логирования вызывающей стороной.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()

	for _, key := range keys {
		if err := c.store.Del(opCtx, key); err != nil {
			return fmt.Errorf("cache invalidate %q: %w", key, err)
		}
	}

	return nil
}

// PatchCounter правит один числовой счётчик внутри закэшированного списка
// объектов: находит элемент по полю "id", прибавляет delta с нижней границей
// ноль и записывает результат обратно с обновлённым TTL.
//
// Отсутствие ключа или элемента — no-op: кэш наполнится при следующем
// чтении уже корректным значением из БД. Гонка двух конкурентных патчей
// может потерять одно обновление кэшированного счётчика — это допустимо,
// настоящий счётчик всегда пересчитывается из записей лайков.
func (c *Cache) PatchCounter(ctx context.Context, key, entityID, field string, delta int64) error {
	opCtx, cancel := c.opCtx(ctx)
	defer cancel()

	raw, ok, err := c.store.Get(opCtx, key)
	if err != nil {
		return fmt.Errorf("cache patch %q: get: %w", key, err)
	}
	if !ok {
		return nil
	}

	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		// Нечитаемую запись не чиним на месте — сносим целиком.
		return c.Invalidate(ctx, key)
	}

	patched := false
	for _, item := range items {
		id, _ := item["id"].(string)
		if id != entityID {
			continue
		}

		current, _ := item[field].(float64)
		next := int64(current) + delta
		if next < 0 {
			next = 0
		}
		item[field] = next
		patched = true
		break
	}

	if !patched {
		return nil
	}

	out, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("cache patch %q: marshal: %w", key, err)
	}

	if err := c.store.Set(opCtx, key, out, c.ttl); err != nil {
		return fmt.Errorf("cache patch %q: set: %w", key, err)
	}

	return nil
}
