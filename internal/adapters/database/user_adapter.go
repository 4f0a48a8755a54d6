package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/postgres"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{client: client}
}

// Touch records a chat user on first contact
func (a *UserAdapter) Touch(ctx context.Context, telegramID int64) error {
	_, err := a.client.DB().ExecContext(ctx,
		`INSERT INTO users (telegram_id) VALUES ($1) ON CONFLICT (telegram_id) DO NOTHING`,
		telegramID,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to record user", err)
	}
	return nil
}

// GetByTelegramID retrieves a user by chat identity
func (a *UserAdapter) GetByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error) {
	user := &entities.User{}
	err := a.client.DB().GetContext(ctx, user,
		`SELECT id, telegram_id, role, master_id, created_at FROM users WHERE telegram_id = $1`,
		telegramID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %d not found", telegramID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}
