package digest

import (
	"fmt"
	"strings"
	"time"

	"chbnews/internal/config"
	"chbnews/internal/domain"
)

const separator = "════════════════════════════════════════════════════════"

// Заголовки секций дайджеста по рубрикам.
var sectionTitles = map[domain.Category]string{
	domain.CategoryWorld:  "🌍 НОВОСТИ МИРА",
	domain.CategoryRussia: "🇷🇺 НОВОСТИ РОССИИ",
	domain.CategorySVO:    "⚔️ СПЕЦИАЛЬНАЯ ВОЕННАЯ ОПЕРАЦИЯ (СВО)",
}

// ruMonthsFull — полные названия месяцев в родительном падеже для даты формирования.
var ruMonthsFull = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// Text формирует содержимое текстового файла дайджеста: шапку, дату
// формирования и пронумерованные новости каждой рубрики с коротким
// описанием, источником, временем и ссылкой.
func Text(ds *domain.Dataset, now time.Time) string {
	var b strings.Builder
	b.WriteString("╔════════════════════════════════════════════════════════╗\n")
	b.WriteString("║        ЕЖЕДНЕВНЫЙ НОВОСТНОЙ ДАЙДЖЕСТ                   ║\n")
	b.WriteString("║        Новости из официальных источников                ║\n")
	b.WriteString("╚════════════════════════════════════════════════════════╝\n\n")
	fmt.Fprintf(&b, "📅 Дата формирования: %d %s %d г., %02d:%02d\n\n",
		now.Day(), ruMonthsFull[now.Month()-1], now.Year(), now.Hour(), now.Minute())

	for _, category := range domain.AllCategories {
		b.WriteString(separator + "\n")
		b.WriteString(sectionTitles[category] + "\n")
		b.WriteString(separator + "\n\n")
		for i, item := range ds.Category(category).Items {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
			fmt.Fprintf(&b, "%s\n", item.ShortDescription)
			fmt.Fprintf(&b, "   Источник: %s | Время: %s\n", item.Source, item.FormattedDate)
			fmt.Fprintf(&b, "   Ссылка: %s\n\n", item.Link)
		}
	}

	b.WriteString(separator + "\n")
	b.WriteString("ℹ️ Все новости взяты из официальных источников.\n")
	b.WriteString("Права на полные тексты принадлежат авторам.\n")
	b.WriteString(separator + "\n")
	return b.String()
}

// FileName возвращает имя файла дайджеста за указанную дату.
func FileName(now time.Time) string {
	return fmt.Sprintf("новостной_дайджест_%s.txt", now.Format("2006-01-02"))
}

// TelegramText формирует текст сообщения для Telegram: по нескольку
// заголовков из каждой рубрики с указанием источника и ссылкой на сайт.
func TelegramText(ds *domain.Dataset, cfg config.TelegramConfig) string {
	var b strings.Builder
	b.WriteString("📰 НОВОСТНОЙ ДАЙДЖЕСТ\n")
	b.WriteString("════════════════════════\n\n")

	headers := map[domain.Category]string{
		domain.CategoryWorld:  "🌍 НОВОСТИ МИРА:",
		domain.CategoryRussia: "🇷🇺 НОВОСТИ РОССИИ:",
		domain.CategorySVO:    "⚔️ НОВОСТИ СВО:",
	}
	for _, category := range domain.AllCategories {
		b.WriteString(headers[category] + "\n")
		items := ds.Category(category).Items
		if cfg.NewsPerCategory > 0 && len(items) > cfg.NewsPerCategory {
			items = items[:cfg.NewsPerCategory]
		}
		for i, item := range items {
			fmt.Fprintf(&b, "%d. %s\n", i+1, truncate(item.Title, cfg.MaxTitleLength))
			fmt.Fprintf(&b, "   📰 %s\n\n", item.Source)
		}
		b.WriteString("\n")
	}

	b.WriteString("════════════════════════\n")
	fmt.Fprintf(&b, "🔗 Подробнее: %s\n", cfg.SiteURL)
	b.WriteString("📡 Новости из официальных источников")
	return b.String()
}

// truncate обрезает заголовок до лимита сообщения.
// Лимит, не вмещающий даже многоточие, не применяется.
func truncate(text string, maxLength int) string {
	if maxLength <= 3 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength-3]) + "..."
}
