package services

import (
	"context"
	"strings"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

// Directory limits
const (
	EntryListLimit     = 10
	BrowseListLimit    = 50
	SearchLimit        = 10
	RecentReviewsLimit = 5
)

// Card is one master prepared for full rendering together with its position
// in the browsed list. Total of 1 means navigation is disabled.
type Card struct {
	Master   *entities.Master
	Reviews  []*entities.Review
	Category string
	SortBy   repositories.SortKey
	Index    int
	Total    int
}

// Navigable reports whether previous/next buttons make sense for the card
func (c *Card) Navigable() bool {
	return c.Total > 1
}

// Next returns the index after the card's, wrapping around
func (c *Card) Next() int {
	return NextIndex(c.Index, c.Total)
}

// Prev returns the index before the card's, wrapping around
func (c *Card) Prev() int {
	return PrevIndex(c.Index, c.Total)
}

// NextIndex is (index + 1) mod total
func NextIndex(index, total int) int {
	if total <= 0 {
		return 0
	}
	return ((index+1)%total + total) % total
}

// PrevIndex is (index - 1) mod total
func PrevIndex(index, total int) int {
	if total <= 0 {
		return 0
	}
	return ((index-1)%total + total) % total
}

// DirectoryService answers catalog queries over approved masters.
// Nothing here is cached: every navigation step re-runs the query.
type DirectoryService struct {
	masters repositories.MasterRepository
	reviews repositories.ReviewRepository
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(masters repositories.MasterRepository, reviews repositories.ReviewRepository) *DirectoryService {
	return &DirectoryService{
		masters: masters,
		reviews: reviews,
	}
}

// List returns approved masters of category ordered by sortBy. An empty
// category or AllCategories disables the filter; limit <= 0 means the entry
// view limit.
func (s *DirectoryService) List(ctx context.Context, category string, sortBy repositories.SortKey, limit int) ([]*entities.Master, error) {
	if limit <= 0 {
		limit = EntryListLimit
	}
	if category == "" {
		category = repositories.AllCategories
	}

	return s.masters.ListApproved(ctx, repositories.MasterFilter{
		Category: category,
		SortBy:   repositories.ParseSortKey(string(sortBy)),
		Limit:    limit,
	})
}

// View returns the card at index within the browse list. Out of range
// indices are clamped to 0; an empty list is NOT_FOUND.
func (s *DirectoryService) View(ctx context.Context, category string, sortBy repositories.SortKey, index int) (*Card, error) {
	list, err := s.List(ctx, category, sortBy, BrowseListLimit)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperrors.NewNotFoundError("no masters to show")
	}
	if index < 0 || index >= len(list) {
		index = 0
	}

	master := list[index]
	reviews, err := s.reviews.ListRecent(ctx, master.ID, RecentReviewsLimit)
	if err != nil {
		return nil, err
	}

	return &Card{
		Master:   master,
		Reviews:  reviews,
		Category: categoryOrAll(category),
		SortBy:   repositories.ParseSortKey(string(sortBy)),
		Index:    index,
		Total:    len(list),
	}, nil
}

// CardByID returns the card of any master regardless of status. The card is
// positioned inside the default browse list when the master is part of it,
// otherwise navigation is disabled.
func (s *DirectoryService) CardByID(ctx context.Context, id int64) (*Card, error) {
	master, err := s.masters.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListRecent(ctx, id, RecentReviewsLimit)
	if err != nil {
		return nil, err
	}

	list, err := s.List(ctx, repositories.AllCategories, repositories.SortByRating, BrowseListLimit)
	if err != nil {
		return nil, err
	}

	card := &Card{
		Master:   master,
		Reviews:  reviews,
		Category: repositories.AllCategories,
		SortBy:   repositories.SortByRating,
		Total:    1,
	}
	for i, m := range list {
		if m.ID == id {
			card.Index = i
			card.Total = len(list)
			break
		}
	}

	return card, nil
}

// Search matches approved masters by substring of name, description or
// category, best rated first.
func (s *DirectoryService) Search(ctx context.Context, text string, limit int) ([]*entities.Master, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("search text is empty")
	}
	if limit <= 0 {
		limit = SearchLimit
	}
	return s.masters.Search(ctx, text, limit)
}

func categoryOrAll(category string) string {
	if category == "" {
		return repositories.AllCategories
	}
	return category
}
