package model

import "time"

// User 用户模型
type User struct {
	ID                int64     `db:"id" json:"id"`
	Username          string    `db:"username" json:"username"`
	Email             string    `db:"email" json:"email"`
	Password          string    `db:"password" json:"-"`
	Token             string    `db:"token" json:"-"`
	PreferredLanguage string    `db:"preferred_language" json:"preferred_language"`
	IsAdmin           bool      `db:"is_admin" json:"is_admin"`
	Status            int       `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"-"`
}
