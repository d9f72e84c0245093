package usecase

import (
	"fmt"
	"strings"
	"time"

	"chbnews/internal/config"
	"chbnews/internal/domain"

	"golang.org/x/net/html"
)

// Значения по умолчанию для неполных записей RSS-лент.
const (
	defaultTitle = "Без заголовка"
	defaultLink  = "#"
)

// ruMonths — сокращенные названия месяцев для отображаемой даты.
var ruMonths = [...]string{
	"янв.", "февр.", "мар.", "апр.", "мая", "июн.",
	"июл.", "авг.", "сент.", "окт.", "нояб.", "дек.",
}

// Normalizer приводит сырые записи RSS-лент к единому виду NewsItem:
// подставляет значения по умолчанию, очищает описание от разметки,
// ограничивает длину заголовка и короткого описания, форматирует дату.
// Изолирует остальную систему от особенностей конкретных лент.
type Normalizer struct {
	titleMaxLength      int
	maxDescriptionWords int
	now                 func() time.Time
}

// NewNormalizer создает нормализатор с лимитами из конфигурации отображения.
func NewNormalizer(cfg config.DisplayConfig) *Normalizer {
	return &Normalizer{
		titleMaxLength:      cfg.TitleMaxLength,
		maxDescriptionWords: cfg.MaxDescriptionWords,
		now:                 time.Now,
	}
}

// Normalize преобразует сырую запись ленты в NewsItem.
// Пустой заголовок заменяется заглушкой, пустая ссылка — сентинелом,
// отсутствующая дата публикации — текущим временем.
func (n *Normalizer) Normalize(item domain.Item, feed domain.FeedDescriptor) domain.NewsItem {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = defaultTitle
	}
	title = TruncateText(title, n.titleMaxLength)
	link := strings.TrimSpace(item.Link)
	if link == "" {
		link = defaultLink
	}
	pubDate := item.PubDate
	if pubDate.IsZero() {
		pubDate = n.now()
	}
	plain := StripHTML(item.Description)
	return domain.NewsItem{
		Title:            title,
		Link:             link,
		PubDate:          pubDate,
		RawDescription:   item.Description,
		Description:      plain,
		ShortDescription: TruncateWords(plain, n.maxDescriptionWords),
		Source:           feed.Name,
		Category:         feed.Category,
		FormattedDate:    FormatDate(pubDate),
	}
}

// ManualItem собирает NewsItem для новости, добавленной администратором вручную.
// Дата публикации — момент добавления; описание считается готовым текстом,
// но на всякий случай проходит ту же очистку от разметки.
func (n *Normalizer) ManualItem(title, description, link, source string, category domain.Category) domain.NewsItem {
	now := n.now()
	plain := StripHTML(description)
	return domain.NewsItem{
		Title:            TruncateText(strings.TrimSpace(title), n.titleMaxLength),
		Link:             strings.TrimSpace(link),
		PubDate:          now,
		RawDescription:   description,
		Description:      plain,
		ShortDescription: TruncateWords(plain, n.maxDescriptionWords),
		Source:           source,
		Category:         category,
		FormattedDate:    FormatDate(now),
		IsManual:         true,
	}
}

// StripHTML очищает текст от HTML-разметки и схлопывает пробельные символы.
// Сущности вида &amp; декодируются токенизатором.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.WriteString(tokenizer.Token().Data)
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// TruncateText обрезает текст до maxLength рун, добавляя многоточие.
// Лимит, не вмещающий даже многоточие, не применяется.
func TruncateText(text string, maxLength int) string {
	if maxLength <= 3 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength-3]) + "..."
}

// TruncateWords обрезает текст до maxWords слов, добавляя многоточие.
func TruncateWords(text string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// FormatDate возвращает дату в локальном отображаемом формате, например "02 янв., 15:04".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%02d %s, %02d:%02d", t.Day(), ruMonths[t.Month()-1], t.Hour(), t.Minute())
}
