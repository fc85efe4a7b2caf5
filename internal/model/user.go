package model

import (
	"database/sql"
	"time"
)

type User struct {
	UUID         string    `db:"uuid" json:"uuid"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	// RefreshToken — единственный действующий refresh-токен пользователя.
	// NULL, если пользователь ни разу не входил или вышел из системы.
	// Перезапись этого поля инвалидирует предыдущий токен
	RefreshToken sql.NullString `db:"refresh_token" json:"-"`
}
