package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Anycrabs/telegram-masters-bot/internal/application/services"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
	"github.com/Anycrabs/telegram-masters-bot/tests/mocks"
)

func TestValidateRating(t *testing.T) {
	for _, r := range []int{1, 2, 3, 4, 5} {
		assert.NoError(t, services.ValidateRating(r))
	}
	for _, r := range []int{-1, 0, 6, 10} {
		assert.True(t, apperrors.IsType(services.ValidateRating(r), apperrors.ErrorTypeValidation), "rating %d", r)
	}
}

func TestRatingService_SubmitReview(t *testing.T) {
	reviews := &mocks.MockReviewRepository{}
	bus := mocks.NewMockEventBus()
	svc := services.NewRatingService(reviews, services.NewEventPublisher(bus))

	name := "anna"
	reviews.On("Submit", mock.Anything, mock.MatchedBy(func(r *entities.Review) bool {
		return r.MasterID == 7 && r.UserID == 100 && r.Rating == 5 && r.Text == "Отлично" && r.IsVisible && *r.Username == "anna"
	})).Return(&entities.RatingAggregate{MasterID: 7, Rating: 4.5, ReviewsCount: 2}, nil).Once()

	agg, err := svc.SubmitReview(context.Background(), services.ReviewInput{
		MasterID: 7, UserID: 100, Username: &name, Rating: 5, Text: "  Отлично ",
	})
	require.NoError(t, err)
	assert.Equal(t, 4.5, agg.Rating)
	assert.Equal(t, 2, agg.ReviewsCount)
	reviews.AssertExpectations(t)

	published := bus.Published()
	require.Len(t, published, 1)
	assert.Equal(t, entities.DirectoryEventReviewSubmitted, published[0].EventType)
	assert.Equal(t, int64(7), published[0].MasterID)
}

func TestRatingService_SubmitReview_InvalidRatingNeverReachesStore(t *testing.T) {
	reviews := &mocks.MockReviewRepository{}
	svc := services.NewRatingService(reviews, nil)

	_, err := svc.SubmitReview(context.Background(), services.ReviewInput{MasterID: 7, UserID: 1, Rating: 6})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	reviews.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestRatingService_SubmitReview_MissingMaster(t *testing.T) {
	reviews := &mocks.MockReviewRepository{}
	bus := mocks.NewMockEventBus()
	svc := services.NewRatingService(reviews, services.NewEventPublisher(bus))

	reviews.On("Submit", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("master 7 not found"))

	_, err := svc.SubmitReview(context.Background(), services.ReviewInput{MasterID: 7, UserID: 1, Rating: 4, Text: "x"})
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, bus.Published())
}

func TestRatingService_PublishFailureIsBestEffort(t *testing.T) {
	reviews := &mocks.MockReviewRepository{}
	bus := mocks.NewMockEventBus()
	bus.PublishErr = errors.New("redis down")
	svc := services.NewRatingService(reviews, services.NewEventPublisher(bus))

	reviews.On("Submit", mock.Anything, mock.Anything).Return(&entities.RatingAggregate{MasterID: 7, Rating: 4, ReviewsCount: 1}, nil)

	_, err := svc.SubmitReview(context.Background(), services.ReviewInput{MasterID: 7, UserID: 1, Rating: 4, Text: "x"})
	assert.NoError(t, err)
}
