package models

import "time"

// Follow — подписка одного пользователя на другого.
// Пара (FollowerID, FollowingID) уникальна.
type Follow struct {
	ID          string    `bson:"_id"`
	FollowerID  string    `bson:"follower_id"`
	FollowingID string    `bson:"following_id"`
	CreatedAt   time.Time `bson:"created_at"`
}

// FollowCounts — счётчики подписок/подписчиков пользователя.
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
