package repositories

import (
	"context"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
)

// AllCategories is the category sentinel that disables the category filter
const AllCategories = "Все"

// SortKey selects the catalog ordering policy
type SortKey string

const (
	// SortByRating orders by rating, then reviews count, both descending
	SortByRating SortKey = "rating"
	// SortByPrice orders by minimal price ascending with unknown prices last
	SortByPrice SortKey = "price"
	// SortByReviews orders by reviews count, then rating, both descending
	SortByReviews SortKey = "reviews"
)

// ParseSortKey maps raw input onto a known policy, falling back to rating.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortByPrice:
		return SortByPrice
	case SortByReviews:
		return SortByReviews
	default:
		return SortByRating
	}
}

// MasterFilter defines filters for listing approved masters
type MasterFilter struct {
	Category string
	PriceMin *int
	PriceMax *int
	SortBy   SortKey
	Limit    int
}

// MasterRepository defines the interface for master data operations
type MasterRepository interface {
	// CreateApplication stores a new master in status new and returns its id
	CreateApplication(ctx context.Context, app *entities.MasterApplication) (int64, error)

	// GetByID retrieves a master regardless of status
	GetByID(ctx context.Context, id int64) (*entities.Master, error)

	// ListApproved retrieves approved masters with filters and ordering
	ListApproved(ctx context.Context, filter MasterFilter) ([]*entities.Master, error)

	// Search matches name, description and category case-insensitively
	Search(ctx context.Context, text string, limit int) ([]*entities.Master, error)

	// ListByStatus retrieves masters in one status, oldest first
	ListByStatus(ctx context.Context, status entities.MasterStatus) ([]*entities.Master, error)

	// ListAll retrieves every master, newest first, optionally by category
	ListAll(ctx context.Context, category string) ([]*entities.Master, error)

	// SetStatus overwrites the status and bumps updated_at
	SetStatus(ctx context.Context, id int64, status entities.MasterStatus) error
}
