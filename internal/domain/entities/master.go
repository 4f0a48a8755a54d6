package entities

import "time"

// MasterStatus is the moderation state of a master.
type MasterStatus string

const (
	MasterStatusNew      MasterStatus = "new"
	MasterStatusApproved MasterStatus = "approved"
	MasterStatusRejected MasterStatus = "rejected"
	MasterStatusInactive MasterStatus = "inactive"
)

// CanTransitionTo reports whether moderation may move a master from s to next.
// Re-applying the current status is allowed and treated as a no-op overwrite.
func (s MasterStatus) CanTransitionTo(next MasterStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case MasterStatusNew:
		return next == MasterStatusApproved || next == MasterStatusRejected
	case MasterStatusApproved, MasterStatusRejected:
		return next == MasterStatusInactive || next == MasterStatusApproved || next == MasterStatusRejected
	}
	return false
}

// Master is a listed service provider. Rating and ReviewsCount are a cached
// aggregate over the master's visible reviews.
type Master struct {
	ID           int64        `json:"id" db:"id"`
	TelegramID   *int64       `json:"telegram_id,omitempty" db:"telegram_id"`
	Name         string       `json:"name" db:"name"`
	Username     *string      `json:"username,omitempty" db:"username"`
	Phone        *string      `json:"phone,omitempty" db:"phone"`
	Category     *string      `json:"category,omitempty" db:"category"`
	Description  *string      `json:"description,omitempty" db:"description"`
	PriceMin     *int         `json:"price_min,omitempty" db:"price_min"`
	PriceMax     *int         `json:"price_max,omitempty" db:"price_max"`
	PhotoFileID  *string      `json:"photo_file_id,omitempty" db:"photo_file_id"`
	Status       MasterStatus `json:"status" db:"status"`
	Rating       float64      `json:"rating" db:"rating"`
	ReviewsCount int          `json:"reviews_count" db:"reviews_count"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// HasPrice reports whether either bound of the price range is set.
func (m *Master) HasPrice() bool {
	return m.PriceMin != nil || m.PriceMax != nil
}

// HasPhoto reports whether a photo reference is attached.
func (m *Master) HasPhoto() bool {
	return m.PhotoFileID != nil && *m.PhotoFileID != ""
}

// MasterApplication carries the answers of a completed application form.
type MasterApplication struct {
	TelegramID  int64
	Name        string
	Username    *string
	Phone       string
	Category    string
	Description string
	PriceMin    *int
	PriceMax    *int
	PhotoFileID *string
}
