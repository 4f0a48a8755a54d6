package bot

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Anycrabs/telegram-masters-bot/internal/application/services"
	"github.com/Anycrabs/telegram-masters-bot/internal/domain/entities"
	"github.com/Anycrabs/telegram-masters-bot/pkg/utils"
)

const (
	reviewPreviewRunes   = 80
	cardDescriptionRunes = 600

	// captionLimit is Telegram's cap on a photo caption, measured with
	// utils.VisibleLength
	captionLimit = 1024
	// captionDescriptionFloor is how far a caption shortens the description
	// before it starts dropping reviews
	captionDescriptionFloor = 200
)

func formatRating(r float64) string {
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatPrice(m *entities.Master) string {
	var from, to string
	if m.PriceMin != nil {
		from = strconv.Itoa(*m.PriceMin)
	}
	if m.PriceMax != nil {
		to = strconv.Itoa(*m.PriceMax)
	}
	return from + "–" + to
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return utils.Escape(*s)
}

// RenderShort is the one-entry summary used in listings
func RenderShort(m *entities.Master) string {
	category := "Без категории"
	if c := deref(m.Category); c != "" {
		category = c
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)", masterRef(m.ID), utils.Escape(m.Name), utils.Escape(category))
	if m.HasPrice() {
		fmt.Fprintf(&b, "\nЦена: %s", formatPrice(m))
	}
	fmt.Fprintf(&b, "\nРейтинг: %s (%d отзывов)", formatRating(m.Rating), m.ReviewsCount)
	return b.String()
}

// RenderList joins short entries under a title
func RenderList(title string, masters []*entities.Master) string {
	parts := make([]string, 0, len(masters)+1)
	parts = append(parts, title)
	for _, m := range masters {
		parts = append(parts, RenderShort(m))
	}
	return strings.Join(parts, "\n\n")
}

// RenderCard is the full card of a master with its latest reviews
func RenderCard(card *services.Card) string {
	return renderCard(card.Master, card.Reviews, cardDescriptionRunes)
}

// RenderCaption is RenderCard fitted into a photo caption. The description
// is shortened first, then the oldest reviews are dropped. ok is false when
// even the bare card is too long for a caption.
func RenderCaption(card *services.Card) (caption string, ok bool) {
	m := card.Master
	desc := min(cardDescriptionRunes, utf8.RuneCountInString(deref(m.Description)))
	reviews := card.Reviews

	for {
		text := renderCard(m, reviews, desc)
		over := utils.VisibleLength(text) - captionLimit
		switch {
		case over <= 0:
			return text, true
		case desc > captionDescriptionFloor:
			desc = max(desc-over, captionDescriptionFloor)
		case len(reviews) > 0:
			// newest first
			reviews = reviews[:len(reviews)-1]
		case desc > 0:
			desc = max(desc-over, 0)
		default:
			return text, false
		}
	}
}

func renderCard(m *entities.Master, reviews []*entities.Review, descRunes int) string {
	lines := []string{
		"<b>" + utils.Escape(m.Name) + "</b>",
		"Категория: " + orDash(m.Category),
		"",
		utils.Escape(utils.Truncate(deref(m.Description), descRunes)),
	}
	if m.HasPrice() {
		lines = append(lines, "Цена: "+formatPrice(m))
	}

	var contacts []string
	if phone := deref(m.Phone); phone != "" {
		contacts = append(contacts, "Телефон: "+utils.Escape(phone))
	}
	if username := deref(m.Username); username != "" {
		contacts = append(contacts, "Telegram: @"+utils.Escape(username))
	}
	if len(contacts) > 0 {
		lines = append(lines, "")
		lines = append(lines, contacts...)
	}

	lines = append(lines, fmt.Sprintf("\nРейтинг: %s (%d отзывов)", formatRating(m.Rating), m.ReviewsCount))

	if len(reviews) > 0 {
		lines = append(lines, "\nПоследние отзывы:")
		for _, r := range reviews {
			lines = append(lines, RenderReview(r))
		}
	}

	return strings.Join(lines, "\n")
}

// RenderReview is one line of the recent reviews block
func RenderReview(r *entities.Review) string {
	author := strconv.FormatInt(r.UserID, 10)
	if u := deref(r.Username); u != "" {
		author = u
	}
	return fmt.Sprintf("⭐ %d от %s: %s", r.Rating, utils.Escape(author), utils.Escape(utils.Truncate(r.Text, reviewPreviewRunes)))
}

// RenderPage shows an info page
func RenderPage(p *entities.InfoPage) string {
	return fmt.Sprintf("<b>%s</b>\n\n%s", utils.Escape(p.Title), utils.Escape(p.Content))
}

// RenderFAQ lists all FAQ entries; callers handle the empty case
func RenderFAQ(entries []*entities.FAQEntry) string {
	lines := []string{"<b>Частые вопросы</b>", ""}
	for _, e := range entries {
		lines = append(lines,
			"❓ <b>"+utils.Escape(e.Question)+"</b>",
			"💬 "+utils.Escape(e.Answer)+"\n",
		)
	}
	return strings.Join(lines, "\n")
}

// RenderPending shows an application awaiting moderation
func RenderPending(m *entities.Master) string {
	return renderPending(m, cardDescriptionRunes)
}

// RenderPendingCaption is RenderPending with the description shortened to
// fit a photo caption. ok is false when nothing short of dropping fields
// would make it fit.
func RenderPendingCaption(m *entities.Master) (caption string, ok bool) {
	desc := min(cardDescriptionRunes, utf8.RuneCountInString(deref(m.Description)))
	for {
		text := renderPending(m, desc)
		over := utils.VisibleLength(text) - captionLimit
		if over <= 0 {
			return text, true
		}
		if desc == 0 {
			return text, false
		}
		desc = max(desc-over, 0)
	}
}

func renderPending(m *entities.Master, descRunes int) string {
	return fmt.Sprintf(
		"Заявка мастера %s:\n\nИмя: %s\nТелефон: %s\nUsername: @%s\nКатегория: %s\nОписание: %s\nЦены: %s\n",
		masterRef(m.ID),
		utils.Escape(m.Name),
		orDash(m.Phone),
		orDash(m.Username),
		orDash(m.Category),
		utils.Escape(utils.Truncate(deref(m.Description), descRunes)),
		formatPrice(m),
	)
}

// RenderAllMasters is the admin overview of every master
func RenderAllMasters(masters []*entities.Master) string {
	lines := []string{"Список всех мастеров:", ""}
	for _, m := range masters {
		lines = append(lines, fmt.Sprintf("%s %s — статус: %s, категория: %s, рейтинг: %s",
			masterRef(m.ID), utils.Escape(m.Name), m.Status, orDash(m.Category), formatRating(m.Rating)))
	}
	return strings.Join(lines, "\n")
}
