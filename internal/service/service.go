// service содержит бизнес-логику блог-сервиса: регистрацию/аутентификацию
// пользователей, выпуск/проверку/отзыв токенов, публикации, лайки,
// комментарии и подписки, а также согласование кэша выборок.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданные зависимости (storage.Storage, cache) потокобезопасны;
//   - Документное хранилище — единственный источник истины; Redis-кэш
//     всегда восстановим и его недоступность не проваливает бизнес-операции;
//   - Ошибки возвращаются сентинелами и далее маппятся HTTP-слоем
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/anshul4117/Blog/internal/cache"
	"github.com/anshul4117/Blog/internal/config"
	"github.com/anshul4117/Blog/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// HTTP 401; ответ одинаков для обоих случаев (защита от перебора email).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — access-токен некорректен по формату/подписи. HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия access-токена истёк. HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — access-токен отозван (logout) и недействителен
	// независимо от срока. HTTP 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUnknownToken — refresh-токен не найден в хранилище: он никогда
	// не выпускался либо уже был ротирован/отозван. HTTP 401.
	ErrUnknownToken = errors.New("unknown refresh token")

	// ErrExpiredToken — refresh-токен найден, но просрочен; запись удалена
	// как побочный эффект проверки. HTTP 401.
	ErrExpiredToken = errors.New("refresh token expired")

	// ErrEmailTaken — e-mail или username уже занят. HTTP 409.
	ErrEmailTaken = errors.New("email already taken")

	// ErrRefreshTokenCollision — исчерпаны попытки сгенерировать уникальный
	// refresh-токен (крайне редкие коллизии хэша). HTTP 500.
	ErrRefreshTokenCollision = errors.New("refresh token collision")

	// ErrInvalidEmail — e-mail имеет некорректный формат. HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль не удовлетворяет политике сложности. HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrNotFound — сущность (пост/пользователь/родительский комментарий)
	// не найдена. HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrEmptyContent — пустой заголовок или тело публикации/комментария. HTTP 400.
	ErrEmptyContent = errors.New("empty content")

	// ErrInvalidProfile — поля профиля не проходят валидацию
	// (пустое имя, превышение лимита длины). HTTP 400.
	ErrInvalidProfile = errors.New("invalid profile fields")

	// ErrSamePassword — новый пароль совпадает со старым. HTTP 400.
	ErrSamePassword = errors.New("new password matches the old one")

	// ErrSelfFollow — попытка подписаться на самого себя. HTTP 400.
	ErrSelfFollow = errors.New("self follow")
)

// Service описывает бизнес-логику блог-сервиса.
type Service struct {
	storage  storage.Storage
	cfg      config.AuthConfig
	cache    *cache.Cache
	denylist *cache.Denylist
}

// New создаёт новый экземпляр Service.
// cache и denylist — обязательные зависимости: хэндл кэш-хранилища
// создаётся на старте процесса и передаётся явно, а не через глобальное
// состояние.
func New(storage storage.Storage, cfg config.AuthConfig, c *cache.Cache, d *cache.Denylist) *Service {
	return &Service{
		storage:  storage,
		cfg:      cfg,
		cache:    c,
		denylist: d,
	}
}
