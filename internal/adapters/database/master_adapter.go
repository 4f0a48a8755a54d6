package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/postgres"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

var masterColumns = []any{
	"id", "telegram_id", "name", "username", "phone", "category",
	"description", "price_min", "price_max", "photo_file_id", "status",
	"rating", "reviews_count", "created_at", "updated_at",
}

// MasterAdapter implements the MasterRepository interface
type MasterAdapter struct {
	client  *postgres.Client
	dialect goqu.DialectWrapper
}

// NewMasterAdapter creates a new master adapter
func NewMasterAdapter(client *postgres.Client) repositories.MasterRepository {
	return &MasterAdapter{
		client:  client,
		dialect: goqu.Dialect("postgres"),
	}
}

// CreateApplication stores a submitted application as a master in status new
func (a *MasterAdapter) CreateApplication(ctx context.Context, app *entities.MasterApplication) (int64, error) {
	query, args, err := a.dialect.Insert("masters").
		Prepared(true).
		Rows(goqu.Record{
			"telegram_id":   app.TelegramID,
			"name":          app.Name,
			"username":      app.Username,
			"phone":         app.Phone,
			"category":      app.Category,
			"description":   app.Description,
			"price_min":     app.PriceMin,
			"price_max":     app.PriceMax,
			"photo_file_id": app.PhotoFileID,
			"status":        entities.MasterStatusNew,
		}).
		Returning("id").
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build insert query", err)
	}

	var id int64
	if err := a.client.DB().QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, apperrors.NewInternalError("failed to create master application", err)
	}

	return id, nil
}

// GetByID retrieves a master by ID regardless of status
func (a *MasterAdapter) GetByID(ctx context.Context, id int64) (*entities.Master, error) {
	query, args, err := a.dialect.From("masters").
		Prepared(true).
		Select(masterColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build get query", err)
	}

	master := &entities.Master{}
	err = a.client.DB().GetContext(ctx, master, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("master with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get master", err)
	}

	return master, nil
}

// ListApproved retrieves approved masters with filters and ordering
func (a *MasterAdapter) ListApproved(ctx context.Context, filter repositories.MasterFilter) ([]*entities.Master, error) {
	ds := a.dialect.From("masters").
		Prepared(true).
		Select(masterColumns...).
		Where(goqu.Ex{"status": entities.MasterStatusApproved})

	if filter.Category != "" && filter.Category != repositories.AllCategories {
		ds = ds.Where(goqu.Ex{"category": filter.Category})
	}

	if filter.PriceMin != nil {
		ds = ds.Where(goqu.C("price_min").Gte(*filter.PriceMin))
	}

	if filter.PriceMax != nil {
		ds = ds.Where(goqu.C("price_max").Lte(*filter.PriceMax))
	}

	ds = ds.Order(orderFor(filter.SortBy)...)

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	return a.selectMasters(ctx, ds, "failed to list approved masters")
}

// likeEscaper quotes LIKE wildcards with Postgres' default escape character
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search finds approved masters whose name, description or category contain
// text. Wildcards in text match literally.
func (a *MasterAdapter) Search(ctx context.Context, text string, limit int) ([]*entities.Master, error) {
	pattern := "%" + likeEscaper.Replace(text) + "%"
	ds := a.dialect.From("masters").
		Prepared(true).
		Select(masterColumns...).
		Where(
			goqu.Ex{"status": entities.MasterStatusApproved},
			goqu.Or(
				goqu.C("name").ILike(pattern),
				goqu.C("description").ILike(pattern),
				goqu.C("category").ILike(pattern),
			),
		).
		Order(orderFor(repositories.SortByRating)...)

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	return a.selectMasters(ctx, ds, "failed to search masters")
}

// ListByStatus retrieves masters in one status, oldest first
func (a *MasterAdapter) ListByStatus(ctx context.Context, status entities.MasterStatus) ([]*entities.Master, error) {
	ds := a.dialect.From("masters").
		Prepared(true).
		Select(masterColumns...).
		Where(goqu.Ex{"status": status}).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc())

	return a.selectMasters(ctx, ds, "failed to list masters by status")
}

// ListAll retrieves every master, newest first
func (a *MasterAdapter) ListAll(ctx context.Context, category string) ([]*entities.Master, error) {
	ds := a.dialect.From("masters").
		Prepared(true).
		Select(masterColumns...)

	if category != "" && category != repositories.AllCategories {
		ds = ds.Where(goqu.Ex{"category": category})
	}

	ds = ds.Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())

	return a.selectMasters(ctx, ds, "failed to list masters")
}

// SetStatus overwrites the status of a master
func (a *MasterAdapter) SetStatus(ctx context.Context, id int64, status entities.MasterStatus) error {
	query, args, err := a.dialect.Update("masters").
		Prepared(true).
		Set(goqu.Record{
			"status":     status,
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update master status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("master with id %d not found", id))
	}

	return nil
}

func (a *MasterAdapter) selectMasters(ctx context.Context, ds *goqu.SelectDataset, failMsg string) ([]*entities.Master, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	masters := []*entities.Master{}
	if err := a.client.DB().SelectContext(ctx, &masters, query, args...); err != nil {
		return nil, apperrors.NewInternalError(failMsg, err)
	}

	return masters, nil
}

// orderFor maps a sort key onto ORDER BY terms. id breaks ties so that
// positions stay stable between page views.
func orderFor(sortBy repositories.SortKey) []exp.OrderedExpression {
	switch sortBy {
	case repositories.SortByPrice:
		return []exp.OrderedExpression{
			goqu.C("price_min").Asc().NullsLast(),
			goqu.C("id").Asc(),
		}
	case repositories.SortByReviews:
		return []exp.OrderedExpression{
			goqu.C("reviews_count").Desc(),
			goqu.C("rating").Desc(),
			goqu.C("id").Asc(),
		}
	default:
		return []exp.OrderedExpression{
			goqu.C("rating").Desc(),
			goqu.C("reviews_count").Desc(),
			goqu.C("id").Asc(),
		}
	}
}
