package repositories

import (
	"context"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Touch records the user if not seen before
	Touch(ctx context.Context, telegramID int64) error

	// GetByTelegramID retrieves a user by chat identity
	GetByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error)
}
