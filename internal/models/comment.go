package models

import "time"

// Comment — комментарий к публикации (корневой или ответ).
type Comment struct {
	ID           string    `bson:"_id" json:"id"`
	PostID       string    `bson:"post_id" json:"postId"`
	AuthorID     string    `bson:"author_id" json:"authorId"`
	ParentID     string    `bson:"parent_id,omitempty" json:"parentId,omitempty"`
	Content      string    `bson:"content" json:"content"`
	RepliesCount int64     `bson:"replies_count" json:"repliesCount"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
