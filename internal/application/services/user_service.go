package services

import (
	"context"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
)

// UserService records who has talked to the bot
type UserService struct {
	users repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register records the user on first contact; repeated calls are no-ops
func (s *UserService) Register(ctx context.Context, telegramID int64) error {
	return s.users.Touch(ctx, telegramID)
}
