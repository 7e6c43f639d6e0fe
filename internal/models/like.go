package models

import "time"

// Типы целей лайка. Набор расширяемый, но известные значения фиксированы.
const (
	LikeTargetPost    = "post"
	LikeTargetComment = "comment"
)

// Like — отметка "нравится" пользователя на цели (пост/комментарий).
// Пара (UserID, TargetID, TargetType) уникальна: один пользователь —
// один лайк на цель.
type Like struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"user_id"`
	TargetID   string    `bson:"target_id"`
	TargetType string    `bson:"target_type"`
	CreatedAt  time.Time `bson:"created_at"`
}

// LikeStatus — агрегированный ответ по цели: сколько лайков и лайкнул ли
// запросивший пользователь.
type LikeStatus struct {
	Count   int64 `json:"count"`
	IsLiked bool  `json:"isLiked"`
}
