package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/postgres"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{client: client}
}

// Submit stores a review and refreshes the master's rating and reviews
// count. The master row is locked first so concurrent submissions for the
// same master recompute the aggregate one after another.
func (a *ReviewAdapter) Submit(ctx context.Context, review *entities.Review) (*entities.RatingAggregate, error) {
	agg := &entities.RatingAggregate{MasterID: review.MasterID}

	err := a.client.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var lockedID int64
		err := tx.QueryRowxContext(ctx,
			`SELECT id FROM masters WHERE id = $1 FOR UPDATE`,
			review.MasterID,
		).Scan(&lockedID)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError(fmt.Sprintf("master with id %d not found", review.MasterID))
		}
		if err != nil {
			return apperrors.NewInternalError("failed to lock master", err)
		}

		err = tx.QueryRowxContext(ctx, `
			INSERT INTO reviews (master_id, user_id, username, rating, text)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, is_visible, created_at`,
			review.MasterID, review.UserID, review.Username, review.Rating, review.Text,
		).Scan(&review.ID, &review.IsVisible, &review.CreatedAt)
		if err != nil {
			return apperrors.NewInternalError("failed to insert review", err)
		}

		err = tx.GetContext(ctx, agg, `
			SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0) AS avg_rating,
			       COUNT(*) AS cnt
			FROM reviews
			WHERE master_id = $1 AND is_visible = TRUE`,
			review.MasterID,
		)
		if err != nil {
			return apperrors.NewInternalError("failed to aggregate reviews", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE masters
			SET rating = $1, reviews_count = $2, updated_at = NOW()
			WHERE id = $3`,
			agg.Rating, agg.ReviewsCount, review.MasterID,
		)
		if err != nil {
			return apperrors.NewInternalError("failed to update master rating", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return agg, nil
}

// ListRecent retrieves the newest visible reviews of a master
func (a *ReviewAdapter) ListRecent(ctx context.Context, masterID int64, limit int) ([]*entities.Review, error) {
	query := `
		SELECT id, master_id, user_id, username, rating, text, is_visible, created_at
		FROM reviews
		WHERE master_id = $1 AND is_visible = TRUE
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	reviews := []*entities.Review{}
	if err := a.client.DB().SelectContext(ctx, &reviews, query, masterID, limit); err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}

	return reviews, nil
}
