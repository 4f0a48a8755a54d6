package database

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Anycrabs/telegram-masters-bot/internal/infrastructure/clients/postgres"
)

var fixedTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return postgres.NewFromDB(sqlx.NewDb(mockDB, "postgres")), mock
}

// sqlPattern builds a regexp matching the literal fragments in order.
func sqlPattern(fragments ...string) string {
	quoted := make([]string, len(fragments))
	for i, f := range fragments {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return strings.Join(quoted, ".*")
}

var masterRowColumns = []string{
	"id", "telegram_id", "name", "username", "phone", "category",
	"description", "price_min", "price_max", "photo_file_id", "status",
	"rating", "reviews_count", "created_at", "updated_at",
}

func masterRows() *sqlmock.Rows {
	return sqlmock.NewRows(masterRowColumns)
}

func addMaster(rows *sqlmock.Rows, id int64, name, category, status string, rating float64, reviews int) *sqlmock.Rows {
	return rows.AddRow(
		id, int64(1000+id), name, "user"+name, "+79990000000", category,
		"Опытный мастер", 1000, 5000, nil, status,
		rating, reviews, fixedTime, fixedTime,
	)
}
