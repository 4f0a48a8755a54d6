package entities

import (
	"time"
)

// UserRole is the stored role of a chat user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User represents a chat user that has talked to the bot
type User struct {
	ID         int64     `json:"id" db:"id"`
	TelegramID int64     `json:"telegram_id" db:"telegram_id"`
	Role       UserRole  `json:"role" db:"role"`
	MasterID   *int64    `json:"master_id,omitempty" db:"master_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
