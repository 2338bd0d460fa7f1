package models

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	Username     string    `json:"username" gorm:"column:username;unique;not null;type:varchar(50)"`
	Email        string    `json:"email" gorm:"column:email;unique;not null;type:varchar(100)"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null;type:varchar(255)"`
	Role         string    `json:"role" gorm:"column:role;default:'user';type:varchar(20)"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime;type:timestamp with time zone"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeEmail проверяет и нормализует email перед записью
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", errors.New("некорректный email адрес")
	}
	return strings.ToLower(email), nil
}

// NormalizeUsername проверяет и нормализует имя пользователя перед записью
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if len(username) < 2 {
		return "", errors.New("имя пользователя должно содержать минимум 2 символа")
	}
	return strings.ToLower(username), nil
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
