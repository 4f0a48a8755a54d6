package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Anycrabs/telegram-masters-bot/internal/application/services"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
	apperrors "github.com/Anycrabs/telegram-masters-bot/pkg/errors"
	"github.com/Anycrabs/telegram-masters-bot/pkg/utils"
)

// Field keys
const (
	FieldName        = "name"
	FieldPhone       = "phone"
	FieldUsername    = "username"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldPriceMin    = "price_min"
	FieldPriceMax    = "price_max"
	FieldPhoto       = "photo_file_id"

	FieldMasterID = "master_id"
	FieldRating   = "rating"
	FieldText     = "text"

	FieldSlug           = "slug"
	FieldCurrentTitle   = "current_title"
	FieldCurrentContent = "current_content"
	FieldTitle          = "title"
	FieldContent        = "content"

	FieldQuestion = "question"
	FieldAnswer   = "answer"
)

const confirmHint = "Если всё верно — отправьте 'Да'. Для отмены — 'Отмена'."

// ApplicationSubmitter stores completed master applications
type ApplicationSubmitter interface {
	Submit(ctx context.Context, app *entities.MasterApplication, senderHandle string) (int64, error)
}

// ReviewSubmitter stores reviews
type ReviewSubmitter interface {
	SubmitReview(ctx context.Context, in services.ReviewInput) (*entities.RatingAggregate, error)
}

// PageEditor overwrites info pages
type PageEditor interface {
	UpsertPage(ctx context.Context, actorID int64, slug, title, content string) (*entities.InfoPage, error)
}

// FAQEditor appends FAQ entries
type FAQEditor interface {
	AddFAQ(ctx context.Context, actorID int64, question, answer string) (*entities.FAQEntry, error)
}

func text(s string) Reply {
	return Reply{Text: s}
}

func fixed(s string) func(Fields) Reply {
	return func(Fields) Reply { return text(s) }
}

// requireText stores the trimmed text under key, rejecting empty input
func requireText(key, retry string) func(Input, Fields) error {
	return func(in Input, f Fields) error {
		v := strings.TrimSpace(in.Text)
		if v == "" {
			return Reject(retry)
		}
		f[key] = v
		return nil
	}
}

// ParsePriceRange reads "min max" leniently: commas count as separators, "-"
// means no range, and a token that is not an integer leaves its bound unset.
func ParsePriceRange(raw string) (priceMin, priceMax *int) {
	raw = strings.TrimSpace(raw)
	if raw == "-" {
		return nil, nil
	}
	parts := strings.Fields(strings.ReplaceAll(raw, ",", " "))
	if len(parts) >= 1 {
		if v, err := strconv.Atoi(parts[0]); err == nil {
			priceMin = &v
		}
	}
	if len(parts) >= 2 {
		if v, err := strconv.Atoi(parts[1]); err == nil {
			priceMax = &v
		}
	}
	return priceMin, priceMax
}

func formatPrice(priceMin, priceMax *int) string {
	var from, to string
	if priceMin != nil {
		from = strconv.Itoa(*priceMin)
	}
	if priceMax != nil {
		to = strconv.Itoa(*priceMax)
	}
	return from + "–" + to
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return utils.Escape(*s)
}

// ApplicationForm collects a master application. categories are offered as
// suggestions only; menu is attached to the closing message.
func ApplicationForm(apps ApplicationSubmitter, categories []string, menu providers.ReplyMarkup) *Form {
	suggestions := make([]string, 0, len(categories))
	for _, c := range categories {
		suggestions = append(suggestions, "- "+c)
	}

	return &Form{
		Kind: KindApplication,
		Steps: []Step{
			{
				Name: FieldName,
				Prompt: func(Fields) Reply {
					return Reply{
						Text:   "Заполним заявку мастера.\n\nДля начала, как вас зовут? (Введите имя)",
						Markup: providers.RemoveKeyboard{},
					}
				},
				Accept: requireText(FieldName, "Введите имя, пожалуйста."),
			},
			{
				Name:   FieldPhone,
				Prompt: fixed("Укажите контактный телефон:"),
				Accept: requireText(FieldPhone, "Укажите контактный телефон текстом:"),
			},
			{
				Name:   FieldUsername,
				Prompt: fixed("Укажите ваш Telegram username (без @). Если нет — напишите '-'."),
				Accept: func(in Input, f Fields) error {
					if strings.TrimSpace(in.Text) == "" {
						return Reject("Напишите username или '-'.")
					}
					f[FieldUsername] = utils.OptionalString(strings.TrimPrefix(strings.TrimSpace(in.Text), "@"))
					return nil
				},
			},
			{
				Name:   FieldCategory,
				Prompt: fixed("Выберите категорию из списка или введите свою:\n" + strings.Join(suggestions, "\n")),
				Accept: requireText(FieldCategory, "Введите категорию текстом."),
			},
			{
				Name:   FieldDescription,
				Prompt: fixed("Кратко опишите ваши услуги (что делаете, с чем работаете):"),
				Accept: requireText(FieldDescription, "Опишите ваши услуги текстом."),
			},
			{
				Name: "price_range",
				Prompt: fixed("Укажите примерный диапазон цен в формате 'мин макс' (например, '1000 5000').\n" +
					"Если не хотите указывать — отправьте '-'."),
				Accept: func(in Input, f Fields) error {
					if strings.TrimSpace(in.Text) == "" {
						return Reject("Отправьте диапазон цен или '-'.")
					}
					priceMin, priceMax := ParsePriceRange(in.Text)
					f[FieldPriceMin] = priceMin
					f[FieldPriceMax] = priceMax
					return nil
				},
			},
			{
				Name: FieldPhoto,
				Prompt: fixed("Пришлите, пожалуйста, ваше фото / фото работ (по желанию).\n" +
					"Если не хотите — отправьте '-'."),
				Accept: func(in Input, f Fields) error {
					switch {
					case in.PhotoID != "":
						photo := in.PhotoID
						f[FieldPhoto] = &photo
					case strings.TrimSpace(in.Text) == "-":
						f[FieldPhoto] = (*string)(nil)
					default:
						return Reject("Отправьте фото или '-' для пропуска.")
					}
					return nil
				},
			},
		},
		Confirm: func(f Fields) Reply {
			photo := "нет"
			if f.StringPtr(FieldPhoto) != nil {
				photo = "есть"
			}
			return text("Проверьте данные заявки:\n\n" +
				"Имя: " + utils.Escape(f.String(FieldName)) + "\n" +
				"Телефон: " + utils.Escape(f.String(FieldPhone)) + "\n" +
				"Username: " + orDash(f.StringPtr(FieldUsername)) + "\n" +
				"Категория: " + utils.Escape(f.String(FieldCategory)) + "\n" +
				"Описание: " + utils.Escape(f.String(FieldDescription)) + "\n" +
				"Цены: " + formatPrice(f.IntPtr(FieldPriceMin), f.IntPtr(FieldPriceMax)) + "\n" +
				"Фото: " + photo + "\n\n" +
				confirmHint)
		},
		Commit: func(ctx context.Context, s *Session) (Reply, error) {
			app := &entities.MasterApplication{
				TelegramID:  s.UserID,
				Name:        s.Fields.String(FieldName),
				Username:    s.Fields.StringPtr(FieldUsername),
				Phone:       s.Fields.String(FieldPhone),
				Category:    s.Fields.String(FieldCategory),
				Description: s.Fields.String(FieldDescription),
				PriceMin:    s.Fields.IntPtr(FieldPriceMin),
				PriceMax:    s.Fields.IntPtr(FieldPriceMax),
				PhotoFileID: s.Fields.StringPtr(FieldPhoto),
			}
			if _, err := apps.Submit(ctx, app, s.Username); err != nil {
				return Reply{}, err
			}
			return Reply{
				Text:   "Ваша заявка отправлена на модерацию. После одобрения вы получите уведомление.",
				Markup: menu,
			}, nil
		},
		Cancelled: Reply{Text: "Заявка отменена.", Markup: menu},
	}
}

// ReviewForm collects a rating and a review text for the master bound under
// FieldMasterID
func ReviewForm(reviews ReviewSubmitter) *Form {
	return &Form{
		Kind: KindReview,
		Steps: []Step{
			{
				Name:   FieldRating,
				Prompt: fixed("Оцените мастера по шкале от 1 до 5 (отправьте число)."),
				Accept: func(in Input, f Fields) error {
					rating, err := strconv.Atoi(strings.TrimSpace(in.Text))
					if err != nil {
						return Reject("Пожалуйста, отправьте число от 1 до 5.")
					}
					if services.ValidateRating(rating) != nil {
						return Reject("Рейтинг должен быть от 1 до 5.")
					}
					f[FieldRating] = rating
					return nil
				},
			},
			{
				Name:   FieldText,
				Prompt: fixed("Напишите текст отзыва:"),
				Accept: requireText(FieldText, "Напишите текст отзыва:"),
			},
		},
		Confirm: func(f Fields) Reply {
			return text(fmt.Sprintf("Вы собираетесь оставить отзыв с рейтингом %d.\n%s", f.Int(FieldRating), confirmHint))
		},
		Commit: func(ctx context.Context, s *Session) (Reply, error) {
			var username *string
			if s.Username != "" {
				username = &s.Username
			}
			_, err := reviews.SubmitReview(ctx, services.ReviewInput{
				MasterID: s.Fields.Int64(FieldMasterID),
				UserID:   s.UserID,
				Username: username,
				Rating:   s.Fields.Int(FieldRating),
				Text:     s.Fields.String(FieldText),
			})
			if apperrors.IsNotFound(err) {
				return text("Мастер не найден, отзыв не сохранён."), nil
			}
			if err != nil {
				return Reply{}, err
			}
			return text("Спасибо! Ваш отзыв отправлен и учтён в рейтинге мастера."), nil
		},
		Cancelled: text("Оставление отзыва отменено."),
	}
}

// InfoEditForm rewrites the info page bound under FieldSlug. When the page
// exists its current title and content are bound too and shown first.
func InfoEditForm(pages PageEditor) *Form {
	return &Form{
		Kind: KindInfoEdit,
		Steps: []Step{
			{
				Name: FieldTitle,
				Prompt: func(f Fields) Reply {
					if f.Has(FieldCurrentTitle) {
						return text(fmt.Sprintf("Текущий текст страницы «%s»:\n\n%s\n\nОтправьте новый заголовок:",
							utils.Escape(f.String(FieldCurrentTitle)), utils.Escape(f.String(FieldCurrentContent))))
					}
					return text(fmt.Sprintf("Страница с кодом «%s» ещё не создана.\nОтправьте заголовок страницы:",
						utils.Escape(f.String(FieldSlug))))
				},
				Accept: requireText(FieldTitle, "Отправьте заголовок страницы текстом:"),
			},
			{
				Name:   FieldContent,
				Prompt: fixed("Отправьте содержимое страницы:"),
				Accept: requireText(FieldContent, "Отправьте содержимое страницы текстом:"),
			},
		},
		Confirm: func(f Fields) Reply {
			return text(fmt.Sprintf("Сохранить страницу «%s»?\n%s", utils.Escape(f.String(FieldTitle)), confirmHint))
		},
		Commit: func(ctx context.Context, s *Session) (Reply, error) {
			_, err := pages.UpsertPage(ctx, s.UserID, s.Fields.String(FieldSlug), s.Fields.String(FieldTitle), s.Fields.String(FieldContent))
			if err != nil {
				return Reply{}, err
			}
			return text("Страница обновлена."), nil
		},
		Cancelled: text("Редактирование страницы отменено."),
	}
}

// FAQAddForm appends one question/answer pair
func FAQAddForm(faq FAQEditor) *Form {
	return &Form{
		Kind: KindFAQAdd,
		Steps: []Step{
			{
				Name:   FieldQuestion,
				Prompt: fixed("Отправьте текст вопроса:"),
				Accept: requireText(FieldQuestion, "Отправьте текст вопроса:"),
			},
			{
				Name:   FieldAnswer,
				Prompt: fixed("Отправьте текст ответа:"),
				Accept: requireText(FieldAnswer, "Отправьте текст ответа:"),
			},
		},
		Confirm: func(f Fields) Reply {
			return text(fmt.Sprintf("Добавить в FAQ вопрос «%s»?\n%s", utils.Escape(f.String(FieldQuestion)), confirmHint))
		},
		Commit: func(ctx context.Context, s *Session) (Reply, error) {
			if _, err := faq.AddFAQ(ctx, s.UserID, s.Fields.String(FieldQuestion), s.Fields.String(FieldAnswer)); err != nil {
				return Reply{}, err
			}
			return text("FAQ добавлен."), nil
		},
		Cancelled: text("Добавление вопроса отменено."),
	}
}
