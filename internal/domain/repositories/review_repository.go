package repositories

import (
	"context"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Submit inserts the review and recomputes the master's cached rating
	// in one transaction. A missing master yields NOT_FOUND and no writes.
	Submit(ctx context.Context, review *entities.Review) (*entities.RatingAggregate, error)

	// ListRecent retrieves the newest visible reviews of a master
	ListRecent(ctx context.Context, masterID int64, limit int) ([]*entities.Review, error)
}
