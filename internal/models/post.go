package models

import "time"

// Post — публикация пользователя.
type Post struct {
	ID        string    `bson:"_id" json:"id"`
	AuthorID  string    `bson:"author_id" json:"authorId"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	Tags      []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	Published bool      `bson:"published" json:"published"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// PostWithLikes — публикация с производным счётчиком лайков.
// LikeCount вычисляется агрегацией по коллекции likes и не хранится
// в документе поста: источником истины остаются сами записи лайков.
type PostWithLikes struct {
	Post      `bson:",inline"`
	LikeCount int64 `bson:"like_count" json:"likeCount"`
}

// PostQuery — параметры выборки ленты публикаций.
// Нулевые значения означают "без ограничения"/значения по умолчанию.
type PostQuery struct {
	AuthorID string
	Tag      string
	Page     int64
	Limit    int64
}
