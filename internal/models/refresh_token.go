package models

import "time"

// RefreshToken — серверная запись refresh-токена (renewal record).
//
// Описание:
//   - RefreshTokenHash — sha256-хэш исходного значения; сам токен клиенту
//     отдаётся один раз и в БД не хранится;
//   - запись уникальна по хэшу; у одного пользователя может быть несколько
//     активных записей (несколько устройств);
//   - запись удаляется при logout, при ротации (refresh) и по истечении
//     срока — при следующей попытке использования.
type RefreshToken struct {
	RefreshTokenHash string    `bson:"_id"`
	UserID           string    `bson:"user_id"`
	CreatedAt        time.Time `bson:"created_at"`
	ExpiresAt        time.Time `bson:"expires_at"`
}
