package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

// ReviewInput is a review about to be submitted
type ReviewInput struct {
	MasterID int64
	UserID   int64
	Username *string
	Rating   int
	Text     string
}

// RatingService records reviews and keeps master ratings in step with them
type RatingService struct {
	reviews repositories.ReviewRepository
	events  *EventPublisher
}

// NewRatingService creates a new rating service
func NewRatingService(reviews repositories.ReviewRepository, events *EventPublisher) *RatingService {
	return &RatingService{
		reviews: reviews,
		events:  events,
	}
}

// ValidateRating checks the 1..5 bound of a review rating
func ValidateRating(rating int) error {
	if rating < entities.MinReviewRating || rating > entities.MaxReviewRating {
		return apperrors.NewValidationError(fmt.Sprintf("rating must be between %d and %d",
			entities.MinReviewRating, entities.MaxReviewRating))
	}
	return nil
}

// SubmitReview stores the review and returns the master's recomputed
// aggregate. A missing master yields NOT_FOUND and nothing is written.
func (s *RatingService) SubmitReview(ctx context.Context, in ReviewInput) (*entities.RatingAggregate, error) {
	if err := ValidateRating(in.Rating); err != nil {
		return nil, err
	}

	review := &entities.Review{
		MasterID:  in.MasterID,
		UserID:    in.UserID,
		Username:  in.Username,
		Rating:    in.Rating,
		Text:      strings.TrimSpace(in.Text),
		IsVisible: true,
	}

	agg, err := s.reviews.Submit(ctx, review)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, entities.NewDirectoryEvent(entities.DirectoryEventReviewSubmitted, map[string]interface{}{
		"rating":        agg.Rating,
		"reviews_count": agg.ReviewsCount,
	}).ForMaster(in.MasterID))

	return agg, nil
}

// RecentReviews returns the newest visible reviews of a master
func (s *RatingService) RecentReviews(ctx context.Context, masterID int64) ([]*entities.Review, error) {
	return s.reviews.ListRecent(ctx, masterID, RecentReviewsLimit)
}
