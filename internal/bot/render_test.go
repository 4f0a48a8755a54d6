package bot

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anycrabs/telegram-masters-bot/internal/application/services"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/pkg/utils"
)

func strp(s string) *string { return &s }
func intp(v int) *int       { return &v }

func TestRenderShort(t *testing.T) {
	m := &entities.Master{
		ID:           3,
		Name:         "Иван <Мастер>",
		Category:     strp("Сантехника"),
		PriceMin:     intp(1000),
		PriceMax:     intp(3000),
		Rating:       4.5,
		ReviewsCount: 2,
	}

	assert.Equal(t, "#3 Иван &lt;Мастер&gt; (Сантехника)\nЦена: 1000–3000\nРейтинг: 4.5 (2 отзывов)", RenderShort(m))
}

func TestRenderShort_NoCategoryNoPrice(t *testing.T) {
	m := &entities.Master{ID: 1, Name: "Пётр", Rating: 0}

	assert.Equal(t, "#1 Пётр (Без категории)\nРейтинг: 0.0 (0 отзывов)", RenderShort(m))
}

func TestRenderShort_OpenPriceRange(t *testing.T) {
	m := &entities.Master{ID: 1, Name: "Пётр", PriceMin: intp(500), Rating: 5}

	assert.Contains(t, RenderShort(m), "Цена: 500–\n")
}

func TestRenderCard(t *testing.T) {
	long := strings.Repeat("я", 120)
	card := &services.Card{
		Master: &entities.Master{
			ID:           2,
			Name:         "Анна",
			Category:     strp("Электрика"),
			Description:  strp("Провода & розетки"),
			Phone:        strp("+7 900"),
			Username:     strp("anna"),
			PriceMin:     intp(500),
			PriceMax:     intp(900),
			Rating:       4.67,
			ReviewsCount: 3,
		},
		Reviews: []*entities.Review{
			{UserID: 10, Username: strp("bob"), Rating: 5, Text: "<b>отлично</b>"},
			{UserID: 11, Rating: 4, Text: long},
		},
	}

	text := RenderCard(card)

	assert.True(t, strings.HasPrefix(text, "<b>Анна</b>\nКатегория: Электрика\n\nПровода &amp; розетки\nЦена: 500–900"))
	assert.Contains(t, text, "Телефон: +7 900\nTelegram: @anna")
	assert.Contains(t, text, "\nРейтинг: 4.67 (3 отзывов)")
	assert.Contains(t, text, "\nПоследние отзывы:\n⭐ 5 от bob: &lt;b&gt;отлично&lt;/b&gt;")
	assert.Contains(t, text, "⭐ 4 от 11: "+strings.Repeat("я", 79)+"…")
	assert.NotContains(t, text, strings.Repeat("я", 80))
}

func TestRenderCard_NoReviewsNoContacts(t *testing.T) {
	card := &services.Card{Master: &entities.Master{ID: 2, Name: "Анна"}}

	text := RenderCard(card)

	assert.Contains(t, text, "Категория: -")
	assert.NotContains(t, text, "Последние отзывы")
	assert.NotContains(t, text, "Телефон")
}

// crowdedCard has the longest description a card shows and a full block of
// long reviews, newest first
func crowdedCard(name string) *services.Card {
	card := &services.Card{
		Master: &entities.Master{
			ID:           7,
			Name:         name,
			Category:     strp("Ремонт квартир под ключ"),
			Description:  strp(strings.Repeat("д", 700)),
			Phone:        strp("+7 900 123-45-67"),
			Username:     strp("master_remont_pro"),
			PriceMin:     intp(1500),
			PriceMax:     intp(90000),
			PhotoFileID:  strp("photo"),
			Rating:       4.83,
			ReviewsCount: 128,
		},
	}
	for i := 0; i < services.RecentReviewsLimit; i++ {
		author := fmt.Sprintf("reviewer_%d_long_handle__", i)
		card.Reviews = append(card.Reviews, &entities.Review{
			UserID:   int64(i),
			Username: &author,
			Rating:   5,
			Text:     strings.Repeat("о", 200),
		})
	}
	return card
}

func TestRenderCaption_ShortensDescriptionFirst(t *testing.T) {
	card := crowdedCard("Сергей")
	assert.Greater(t, utils.VisibleLength(RenderCard(card)), captionLimit)

	caption, ok := RenderCaption(card)

	require.True(t, ok)
	assert.LessOrEqual(t, utils.VisibleLength(caption), captionLimit)
	assert.Contains(t, caption, "…")
	for _, r := range card.Reviews {
		assert.Contains(t, caption, *r.Username)
	}
}

func TestRenderCaption_DropsOldestReviews(t *testing.T) {
	card := crowdedCard(strings.Repeat("С", 350))

	caption, ok := RenderCaption(card)

	require.True(t, ok)
	assert.LessOrEqual(t, utils.VisibleLength(caption), captionLimit)
	assert.Contains(t, caption, *card.Reviews[0].Username)
	assert.NotContains(t, caption, *card.Reviews[len(card.Reviews)-1].Username)
	assert.Contains(t, caption, strings.Repeat("д", captionDescriptionFloor-1)+"…")
}

func TestRenderCaption_ShortCardIsUnchanged(t *testing.T) {
	card := &services.Card{Master: &entities.Master{ID: 1, Name: "Анна", Description: strp("Коротко")}}

	caption, ok := RenderCaption(card)

	require.True(t, ok)
	assert.Equal(t, RenderCard(card), caption)
}

func TestRenderCaption_TooLongName(t *testing.T) {
	card := crowdedCard(strings.Repeat("С", captionLimit+1))

	_, ok := RenderCaption(card)

	assert.False(t, ok)
}

func TestRenderPendingCaption(t *testing.T) {
	m := crowdedCard(strings.Repeat("С", 600)).Master

	caption, ok := RenderPendingCaption(m)

	require.True(t, ok)
	assert.LessOrEqual(t, utils.VisibleLength(caption), captionLimit)
	assert.Contains(t, caption, "Имя: "+strings.Repeat("С", 600))

	_, ok = RenderPendingCaption(&entities.Master{ID: 1, Name: strings.Repeat("С", captionLimit)})
	assert.False(t, ok)
}

func TestRenderPending(t *testing.T) {
	m := &entities.Master{
		ID:          9,
		Name:        "Олег",
		Phone:       strp("123"),
		Category:    strp("Ремонт"),
		Description: strp("Всё"),
		PriceMin:    intp(1),
	}

	assert.Equal(t,
		"Заявка мастера #9:\n\nИмя: Олег\nТелефон: 123\nUsername: @-\nКатегория: Ремонт\nОписание: Всё\nЦены: 1–\n",
		RenderPending(m))
}

func TestRenderFAQ(t *testing.T) {
	text := RenderFAQ([]*entities.FAQEntry{
		{Question: "Как?", Answer: "Так."},
		{Question: "A & B?", Answer: "C"},
	})

	assert.Equal(t, "<b>Частые вопросы</b>\n\n❓ <b>Как?</b>\n💬 Так.\n\n❓ <b>A &amp; B?</b>\n💬 C\n", text)
}

func TestRenderAllMasters(t *testing.T) {
	text := RenderAllMasters([]*entities.Master{
		{ID: 1, Name: "A", Status: entities.MasterStatusNew, Rating: 0},
		{ID: 2, Name: "B", Status: entities.MasterStatusApproved, Category: strp("Ремонт"), Rating: 4.5},
	})

	assert.Equal(t, "Список всех мастеров:\n\n#1 A — статус: new, категория: -, рейтинг: 0.0\n#2 B — статус: approved, категория: Ремонт, рейтинг: 4.5", text)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	chunks := splitMessage("aaaa\nbbbb\ncccc", 9)
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, chunks)

	chunks = splitMessage(strings.Repeat("x", 25), 10)
	assert.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 10)
	}
}
