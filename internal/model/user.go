package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleManager Role = "manager" // Видит все записи курса
	RoleAdmin   Role = "admin"   // Видит все записи сайта
)

type User struct {
	ID         int64     `json:"id"`
	TelegramID *int64    `json:"telegram_id"` // указатель - может быть nil
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Department string    `json:"department"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// FullName возвращает "Имя Фамилия", а при пустых полях - username
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// CanTeach - может ли пользователь оценивать встречи
func (u *User) CanTeach() bool {
	return u.Role == RoleTeacher || u.Role == RoleManager || u.Role == RoleAdmin
}
