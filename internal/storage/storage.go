// storage задаёт контракты работы с документным хранилищем (MongoDB).
// Пакет не содержит бизнес-логики: только интерфейсы и ошибки-сентинелы,
// на которые маппятся ошибки конкретного адаптера.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/anshul4117/Blog/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/токен/пост/лайк).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/refresh-token/лайк/подписка).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id string) (*models.User, error)
	// UpdateUserProfile применяет частичное обновление профиля и возвращает
	// обновлённого пользователя.
	UpdateUserProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error)
	// UpdateUserPassword заменяет хэш пароля пользователя.
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	// ListUsers возвращает страницу пользователей (новые первыми).
	ListUsers(ctx context.Context, page, limit int64) ([]models.User, error)
}

// RefreshTokenStorage выполняет операции над refresh-токенами.
type RefreshTokenStorage interface {
	// SaveRefreshToken сохраняет новую запись refresh-токена.
	// Возвращает ErrAlreadyExists при коллизии хэша.
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// RefreshTokenByHash находит запись по хэшу значения.
	RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	// DeleteRefreshToken удаляет запись по хэшу.
	// Возвращает true, если запись существовала; (false, nil) — если нет.
	DeleteRefreshToken(ctx context.Context, hash string) (bool, error)
	// DeleteExpiredTokens удаляет все просроченные записи.
	DeleteExpiredTokens(ctx context.Context, now time.Time) error
}

// PostStorage выполняет операции над публикациями.
type PostStorage interface {
	// SavePost создаёт публикацию.
	SavePost(ctx context.Context, post *models.Post) error
	// PostByID находит публикацию по ID.
	PostByID(ctx context.Context, id string) (*models.Post, error)
	// UpdatePost обновляет поля публикации автора.
	UpdatePost(ctx context.Context, post *models.Post) error
	// DeletePost удаляет публикацию автора.
	// Возвращает true, если публикация существовала.
	DeletePost(ctx context.Context, id, authorID string) (bool, error)
	// ListPosts возвращает страницу опубликованных постов по запросу.
	ListPosts(ctx context.Context, query models.PostQuery) ([]models.Post, error)
	// PostsWithLikesByAuthor возвращает посты автора с производным
	// счётчиком лайков ($lookup по коллекции likes).
	PostsWithLikesByAuthor(ctx context.Context, authorID string) ([]models.PostWithLikes, error)
}

// CommentStorage выполняет операции над комментариями.
type CommentStorage interface {
	// SaveComment создаёт комментарий; для ответа инкрементирует
	// replies_count родителя.
	SaveComment(ctx context.Context, comment *models.Comment) error
	// CommentsByPost возвращает комментарии публикации (новые первыми).
	CommentsByPost(ctx context.Context, postID string, limit int64) ([]models.Comment, error)
}

// LikeStorage выполняет операции над лайками.
type LikeStorage interface {
	// SaveLike создаёт лайк; ErrAlreadyExists — если уже есть.
	SaveLike(ctx context.Context, like *models.Like) error
	// DeleteLike удаляет лайк; true — если лайк существовал.
	DeleteLike(ctx context.Context, userID, targetID, targetType string) (bool, error)
	// LikeCount — число лайков цели (источник истины).
	LikeCount(ctx context.Context, targetID, targetType string) (int64, error)
	// HasLike — лайкал ли пользователь цель.
	HasLike(ctx context.Context, userID, targetID, targetType string) (bool, error)
}

// FollowStorage выполняет операции над подписками.
type FollowStorage interface {
	// SaveFollow создаёт подписку; ErrAlreadyExists — если уже есть.
	SaveFollow(ctx context.Context, follow *models.Follow) error
	// DeleteFollow удаляет подписку; true — если она существовала.
	DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error)
	// FollowCounts — счётчики подписчиков/подписок пользователя.
	FollowCounts(ctx context.Context, userID string) (models.FollowCounts, error)
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	PostStorage
	CommentStorage
	LikeStorage
	FollowStorage
	Close(ctx context.Context) error
}
