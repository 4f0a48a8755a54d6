package bot

import (
	"strconv"

	"github.com/Anycrabs/telegram-masters-bot/internal/application/services"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/repositories"
)

// Main menu buttons
const (
	ButtonCatalog      = "Каталог мастеров"
	ButtonBecomeMaster = "Стать мастером"
	ButtonAbout        = "О нас"
	ButtonFAQ          = "FAQ"
	ButtonContacts     = "Контакты"
)

// Categories offered by the catalog filters and the application form.
// The first entry disables the filter.
var Categories = []string{repositories.AllCategories, "Сантехника", "Электрика", "Ремонт"}

var sortLabels = []struct {
	key   repositories.SortKey
	label string
}{
	{repositories.SortByRating, "Рейтинг"},
	{repositories.SortByPrice, "Цена"},
	{repositories.SortByReviews, "Отзывы"},
}

// MainMenu is the persistent reply keyboard
func MainMenu() providers.ReplyKeyboard {
	return providers.ReplyKeyboard{
		{ButtonCatalog},
		{ButtonBecomeMaster, ButtonAbout},
		{ButtonFAQ, ButtonContacts},
	}
}

func current(label string, selected bool) string {
	if selected {
		return "[" + label + "]"
	}
	return label
}

// CatalogFilters offers category and sort switches for a listing plus a
// button that opens the first card of it
func CatalogFilters(category string, sortBy repositories.SortKey) providers.InlineKeyboard {
	categoryRow := make([]providers.InlineButton, 0, len(Categories))
	for _, c := range Categories {
		categoryRow = append(categoryRow, providers.InlineButton{
			Text: current(c, c == category),
			Data: Command{Action: ActionCatalogList, Category: c, SortBy: sortBy}.Encode(),
		})
	}

	sortRow := make([]providers.InlineButton, 0, len(sortLabels))
	for _, s := range sortLabels {
		sortRow = append(sortRow, providers.InlineButton{
			Text: current(s.label, s.key == sortBy),
			Data: Command{Action: ActionCatalogList, Category: category, SortBy: s.key}.Encode(),
		})
	}

	return providers.InlineKeyboard{
		categoryRow,
		sortRow,
		{{
			Text: "Смотреть мастеров",
			Data: Command{Action: ActionCatalogOpen, Category: category, SortBy: sortBy}.Encode(),
		}},
	}
}

// CardKeyboard navigates a card within its listing
func CardKeyboard(card *services.Card) providers.InlineKeyboard {
	var kb providers.InlineKeyboard
	if card.Navigable() {
		kb = append(kb, []providers.InlineButton{
			{Text: "⬅️ Предыдущий", Data: Command{Action: ActionCatalogView, Category: card.Category, SortBy: card.SortBy, Index: card.Prev()}.Encode()},
			{Text: "Следующий ➡️", Data: Command{Action: ActionCatalogView, Category: card.Category, SortBy: card.SortBy, Index: card.Next()}.Encode()},
		})
	}
	kb = append(kb, []providers.InlineButton{
		{Text: "Оставить отзыв", Data: Command{Action: ActionReviewAdd, MasterID: card.Master.ID}.Encode()},
	})
	return kb
}

// AdminMenu is the root of the admin panel
func AdminMenu() providers.InlineKeyboard {
	return providers.InlineKeyboard{
		{{Text: "Заявки мастеров", Data: string(ActionAdminPending)}},
		{{Text: "Все мастера", Data: string(ActionAdminAll)}},
		{{Text: "Инфо-разделы", Data: string(ActionAdminInfoMenu)}},
		{{Text: "FAQ", Data: string(ActionAdminFAQMenu)}},
	}
}

// PendingKeyboard moderates one application
func PendingKeyboard(master *entities.Master) providers.InlineKeyboard {
	return providers.InlineKeyboard{{
		{Text: "✅ Одобрить", Data: Command{Action: ActionAdminApprove, MasterID: master.ID}.Encode()},
		{Text: "❌ Отклонить", Data: Command{Action: ActionAdminReject, MasterID: master.ID}.Encode()},
	}}
}

// InfoMenu lists the editable info pages
func InfoMenu() providers.InlineKeyboard {
	return providers.InlineKeyboard{
		{{Text: "О нас", Data: Command{Action: ActionAdminInfoEdit, Slug: entities.InfoSlugAbout}.Encode()}},
		{{Text: "Контакты", Data: Command{Action: ActionAdminInfoEdit, Slug: entities.InfoSlugContacts}.Encode()}},
	}
}

// FAQMenu manages FAQ entries
func FAQMenu() providers.InlineKeyboard {
	return providers.InlineKeyboard{
		{{Text: "Добавить вопрос-ответ", Data: string(ActionAdminFAQAdd)}},
	}
}

func masterRef(id int64) string {
	return "#" + strconv.FormatInt(id, 10)
}
