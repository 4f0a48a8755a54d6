package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
)

func TestInfoAdapter_GetPage(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewInfoAdapter(client)

	mock.ExpectQuery(sqlPattern(`FROM info_pages WHERE slug = $1`)).
		WithArgs("about").
		WillReturnRows(sqlmock.NewRows([]string{"slug", "title", "content", "updated_at"}).
			AddRow("about", "О нас", "Информация о сервисе мастеров.", fixedTime))

	page, err := adapter.GetPage(context.Background(), "about")
	require.NoError(t, err)
	assert.Equal(t, "О нас", page.Title)
}

func TestInfoAdapter_GetPage_NotFound(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewInfoAdapter(client)

	mock.ExpectQuery(`FROM info_pages`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"slug", "title", "content", "updated_at"}))

	_, err := adapter.GetPage(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestInfoAdapter_UpsertPage(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewInfoAdapter(client)

	mock.ExpectQuery(sqlPattern(`INSERT INTO info_pages`, `ON CONFLICT (slug) DO UPDATE`)).
		WithArgs("contacts", "Контакты", "@admin").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(fixedTime))

	page := &entities.InfoPage{Slug: "contacts", Title: "Контакты", Content: "@admin"}
	require.NoError(t, adapter.UpsertPage(context.Background(), page))
	assert.Equal(t, fixedTime, page.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInfoAdapter_ListFAQ(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewInfoAdapter(client)

	mock.ExpectQuery(sqlPattern(`FROM faq`, `is_visible = TRUE`, `ORDER BY id ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer", "is_visible", "created_at", "updated_at"}).
			AddRow(int64(1), "Как стать мастером?", "Подайте заявку.", true, fixedTime, fixedTime))

	entries, err := adapter.ListFAQ(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Подайте заявку.", entries[0].Answer)
}

func TestInfoAdapter_AddFAQ(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewInfoAdapter(client)

	mock.ExpectQuery(sqlPattern(`INSERT INTO faq`, `RETURNING id`)).
		WithArgs("Q?", "A.").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_visible", "created_at", "updated_at"}).
			AddRow(int64(9), true, fixedTime, fixedTime))

	entry := &entities.FAQEntry{Question: "Q?", Answer: "A."}
	require.NoError(t, adapter.AddFAQ(context.Background(), entry))
	assert.Equal(t, int64(9), entry.ID)
	assert.True(t, entry.IsVisible)
}
