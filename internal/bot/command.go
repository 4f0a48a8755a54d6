package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
)

// Action is the verb of an inline button command
type Action string

const (
	ActionCatalogList   Action = "catalog:list"
	ActionCatalogOpen   Action = "catalog:open"
	ActionCatalogView   Action = "catalog:view"
	ActionReviewAdd     Action = "review:add"
	ActionAdminPending  Action = "admin:masters:pending"
	ActionAdminAll      Action = "admin:masters:all"
	ActionAdminApprove  Action = "admin:masters:approve"
	ActionAdminReject   Action = "admin:masters:reject"
	ActionAdminInfoMenu Action = "admin:info:menu"
	ActionAdminInfoEdit Action = "admin:info:edit"
	ActionAdminFAQMenu  Action = "admin:faq:menu"
	ActionAdminFAQAdd   Action = "admin:faq:add"
)

// ErrInvalidCommand is returned for callback data that does not decode
var ErrInvalidCommand = errors.New("invalid callback data")

// Command is a decoded inline button payload. Only the fields used by
// Action are meaningful.
type Command struct {
	Action   Action
	Category string
	SortBy   repositories.SortKey
	Index    int
	MasterID int64
	Slug     string
}

// Encode renders the command as callback data
func (c Command) Encode() string {
	switch c.Action {
	case ActionCatalogList:
		return fmt.Sprintf("%s:%s:%s", c.Action, c.Category, c.SortBy)
	case ActionCatalogOpen, ActionCatalogView:
		return fmt.Sprintf("%s:%s:%s:%d", c.Action, c.Category, c.SortBy, c.Index)
	case ActionReviewAdd, ActionAdminApprove, ActionAdminReject:
		return fmt.Sprintf("%s:%d", c.Action, c.MasterID)
	case ActionAdminInfoEdit:
		return fmt.Sprintf("%s:%s", c.Action, c.Slug)
	default:
		return string(c.Action)
	}
}

var bareActions = []Action{
	ActionAdminPending,
	ActionAdminAll,
	ActionAdminInfoMenu,
	ActionAdminFAQMenu,
	ActionAdminFAQAdd,
}

var masterActions = []Action{
	ActionReviewAdd,
	ActionAdminApprove,
	ActionAdminReject,
}

// DecodeCommand parses callback data produced by Encode
func DecodeCommand(data string) (Command, error) {
	for _, a := range bareActions {
		if data == string(a) {
			return Command{Action: a}, nil
		}
	}

	for _, a := range masterActions {
		if rest, ok := strings.CutPrefix(data, string(a)+":"); ok {
			id, err := strconv.ParseInt(rest, 10, 64)
			if err != nil || id <= 0 {
				return Command{}, invalid(data)
			}
			return Command{Action: a, MasterID: id}, nil
		}
	}

	if rest, ok := strings.CutPrefix(data, string(ActionAdminInfoEdit)+":"); ok {
		if rest == "" {
			return Command{}, invalid(data)
		}
		return Command{Action: ActionAdminInfoEdit, Slug: rest}, nil
	}

	if rest, ok := strings.CutPrefix(data, string(ActionCatalogList)+":"); ok {
		category, sortBy, err := splitCatalog(rest)
		if err != nil {
			return Command{}, invalid(data)
		}
		return Command{Action: ActionCatalogList, Category: category, SortBy: sortBy}, nil
	}

	for _, a := range []Action{ActionCatalogOpen, ActionCatalogView} {
		rest, ok := strings.CutPrefix(data, string(a)+":")
		if !ok {
			continue
		}
		cut := strings.LastIndex(rest, ":")
		if cut < 0 {
			return Command{}, invalid(data)
		}
		index, err := strconv.Atoi(rest[cut+1:])
		if err != nil {
			return Command{}, invalid(data)
		}
		category, sortBy, err := splitCatalog(rest[:cut])
		if err != nil {
			return Command{}, invalid(data)
		}
		return Command{Action: a, Category: category, SortBy: sortBy, Index: index}, nil
	}

	return Command{}, invalid(data)
}

// splitCatalog splits "<category>:<sort>". The category is everything left
// of the last colon.
func splitCatalog(s string) (string, repositories.SortKey, error) {
	cut := strings.LastIndex(s, ":")
	if cut <= 0 {
		return "", "", ErrInvalidCommand
	}
	sortBy := repositories.SortKey(s[cut+1:])
	switch sortBy {
	case repositories.SortByRating, repositories.SortByPrice, repositories.SortByReviews:
	default:
		return "", "", ErrInvalidCommand
	}
	return s[:cut], sortBy, nil
}

func invalid(data string) error {
	return fmt.Errorf("%w: %q", ErrInvalidCommand, data)
}
