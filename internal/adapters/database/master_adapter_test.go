package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

func TestMasterAdapter_CreateApplication(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewMasterAdapter(client)

	category := "Сантехника"
	priceMin, priceMax := 1000, 3000
	app := &entities.MasterApplication{
		TelegramID: 555,
		Name:       "Иван",
		Phone:      "+79991234567",
		Category:   category,
		PriceMin:   &priceMin,
		PriceMax:   &priceMax,
	}

	mock.ExpectQuery(sqlPattern(`INSERT INTO "masters"`, `RETURNING "id"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(17)))

	id, err := adapter.CreateApplication(context.Background(), app)
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMasterAdapter_CreateApplication_StoreFailure(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewMasterAdapter(client)

	mock.ExpectQuery(`INSERT INTO "masters"`).WillReturnError(errors.New("connection reset"))

	_, err := adapter.CreateApplication(context.Background(), &entities.MasterApplication{Name: "Иван"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestMasterAdapter_GetByID(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewMasterAdapter(client)

	mock.ExpectQuery(sqlPattern(`FROM "masters"`, `"id" = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(addMaster(masterRows(), 3, "Пётр", "Электрика", "rejected", 4.5, 2))

	master, err := adapter.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Пётр", master.Name)
	assert.Equal(t, entities.MasterStatusRejected, master.Status)
	assert.Equal(t, 4.5, master.Rating)
	require.NotNil(t, master.Category)
	assert.Equal(t, "Электрика", *master.Category)
	assert.Nil(t, master.PhotoFileID)
}

func TestMasterAdapter_GetByID_NotFound(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewMasterAdapter(client)

	mock.ExpectQuery(`FROM "masters"`).WithArgs(int64(99)).WillReturnRows(masterRows())

	master, err := adapter.GetByID(context.Background(), 99)
	assert.Nil(t, master)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMasterAdapter_ListApproved(t *testing.T) {
	tests := []struct {
		name    string
		filter  repositories.MasterFilter
		pattern string
		args    []driver.Value
	}{
		{
			name:   "all categories by rating",
			filter: repositories.MasterFilter{Category: repositories.AllCategories, SortBy: repositories.SortByRating, Limit: 10},
			pattern: sqlPattern(`FROM "masters" WHERE`, `"status" = $1`,
				`ORDER BY "rating" DESC, "reviews_count" DESC, "id" ASC LIMIT $2`),
			args: []driver.Value{"approved", int64(10)},
		},
		{
			name:   "category by price",
			filter: repositories.MasterFilter{Category: "Сантехника", SortBy: repositories.SortByPrice, Limit: 50},
			pattern: sqlPattern(`"status" = $1`, `"category" = $2`,
				`ORDER BY "price_min" ASC NULLS LAST, "id" ASC LIMIT $3`),
			args: []driver.Value{"approved", "Сантехника", int64(50)},
		},
		{
			name:   "reviews ordering without limit",
			filter: repositories.MasterFilter{SortBy: repositories.SortByReviews},
			pattern: sqlPattern(`"status" = $1`,
				`ORDER BY "reviews_count" DESC, "rating" DESC, "id" ASC`),
			args: []driver.Value{"approved"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := newMockClient(t)
			adapter := NewMasterAdapter(client)

			rows := addMaster(masterRows(), 1, "Анна", "Сантехника", "approved", 5, 3)
			addMaster(rows, 2, "Борис", "Сантехника", "approved", 4.2, 8)

			mock.ExpectQuery(tt.pattern).WithArgs(tt.args...).WillReturnRows(rows)

			masters, err := adapter.ListApproved(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, masters, 2)
			assert.Equal(t, "Анна", masters[0].Name)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMasterAdapter_ListApproved_PriceBounds(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewMasterAdapter(client)

	lo, hi := 500, 2000
	mock.ExpectQuery(sqlPattern(`"price_min" >= $2`, `"price_max" <= $3`)).
		WithArgs("approved", int64(500), int64(2000)).
		WillReturnRows(masterRows())

	masters, err := adapter.ListApproved(context.Background(), repositories.MasterFilter{PriceMin: &lo, PriceMax: &hi})
	require.NoError(t, err)
	assert.Empty(t, masters)
	assert.NotNil(t, masters)
}

func TestMasterAdapter_Search(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewMasterAdapter(client)

	mock.ExpectQuery(sqlPattern(`"status" = $1`, `"name" ILIKE $2`, `"description" ILIKE $3`, `"category" ILIKE $4`, `LIMIT $5`)).
		WithArgs("approved", "%кран%", "%кран%", "%кран%", int64(10)).
		WillReturnRows(addMaster(masterRows(), 4, "Олег", "Сантехника", "approved", 4, 1))

	masters, err := adapter.Search(context.Background(), "кран", 10)
	require.NoError(t, err)
	require.Len(t, masters, 1)
	assert.Equal(t, int64(4), masters[0].ID)
}

func TestMasterAdapter_Search_EscapesWildcards(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewMasterAdapter(client)

	want := `%скидка 50\% на\_всё \\ сразу%`
	mock.ExpectQuery(sqlPattern(`"name" ILIKE $2`)).
		WithArgs("approved", want, want, want, int64(10)).
		WillReturnRows(masterRows())

	masters, err := adapter.Search(context.Background(), `скидка 50% на_всё \ сразу`, 10)
	require.NoError(t, err)
	assert.Empty(t, masters)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMasterAdapter_ListByStatus_OldestFirst(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewMasterAdapter(client)

	mock.ExpectQuery(sqlPattern(`"status" = $1`, `ORDER BY "created_at" ASC, "id" ASC`)).
		WithArgs("new").
		WillReturnRows(addMaster(masterRows(), 8, "Вера", "Ремонт", "new", 0, 0))

	masters, err := adapter.ListByStatus(context.Background(), entities.MasterStatusNew)
	require.NoError(t, err)
	require.Len(t, masters, 1)
	assert.Equal(t, entities.MasterStatusNew, masters[0].Status)
}

func TestMasterAdapter_ListAll(t *testing.T) {
	t.Run("no category filter", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := NewMasterAdapter(client)

		mock.ExpectQuery(sqlPattern(`FROM "masters" ORDER BY "created_at" DESC, "id" DESC`)).
			WillReturnRows(masterRows())

		_, err := adapter.ListAll(context.Background(), repositories.AllCategories)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("with category", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := NewMasterAdapter(client)

		mock.ExpectQuery(sqlPattern(`"category" = $1`, `ORDER BY "created_at" DESC`)).
			WithArgs("Электрика").
			WillReturnRows(masterRows())

		_, err := adapter.ListAll(context.Background(), "Электрика")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMasterAdapter_SetStatus(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewMasterAdapter(client)

	mock.ExpectExec(sqlPattern(`UPDATE "masters" SET "status"=$1,"updated_at"=NOW()`, `"id" = $2`)).
		WithArgs("approved", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.SetStatus(context.Background(), 5, entities.MasterStatusApproved)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMasterAdapter_SetStatus_NotFound(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewMasterAdapter(client)

	mock.ExpectExec(`UPDATE "masters"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.SetStatus(context.Background(), 404, entities.MasterStatusRejected)
	assert.True(t, apperrors.IsNotFound(err))
}
