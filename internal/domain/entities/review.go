package entities

import "time"

// Review is a user's rating of a master.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	MasterID  int64     `json:"master_id" db:"master_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Username  *string   `json:"username,omitempty" db:"username"`
	Rating    int       `json:"rating" db:"rating"` // 1-5
	Text      string    `json:"text" db:"text"`
	IsVisible bool      `json:"is_visible" db:"is_visible"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RatingAggregate is the recomputed rating cache of one master.
type RatingAggregate struct {
	MasterID     int64   `json:"master_id" db:"master_id"`
	Rating       float64 `json:"rating" db:"avg_rating"`
	ReviewsCount int     `json:"reviews_count" db:"cnt"`
}

// Review rating bounds.
const (
	MinReviewRating = 1
	MaxReviewRating = 5
)
