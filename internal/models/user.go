package models

import "time"

// User — модель пользователя в системе.
// PasswordHash хранит bcrypt-хэш; исходный пароль никогда не сохраняется.
type User struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	Username     string    `bson:"username"`
	Name         string    `bson:"name"`
	Role         string    `bson:"role"`
	PasswordHash string    `bson:"password_hash"`
	Bio          string    `bson:"bio,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// ProfileUpdate — частичное обновление профиля.
// nil-поле означает "оставить как есть".
type ProfileUpdate struct {
	Name *string
	Bio  *string
}

// UserSummary — публичная выжимка профиля, отдаваемая при логине.
// Не содержит чувствительных полей.
type UserSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Summary формирует публичную выжимку из полной модели.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
	}
}
