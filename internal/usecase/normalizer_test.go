package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chbnews/internal/config"
	"chbnews/internal/domain"
)

func testNormalizer(now time.Time) *Normalizer {
	n := NewNormalizer(config.DisplayConfig{
		TitleMaxLength:      200,
		MaxDescriptionWords: 100,
	})
	n.now = func() time.Time { return now }
	return n
}

func TestNormalizer_Normalize_Defaults(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 30, 0, 0, time.UTC)
	n := testNormalizer(now)
	feed := domain.FeedDescriptor{Name: "ТАСС", Category: domain.CategoryRussia}

	item := n.Normalize(domain.Item{
		Title:       "   ",
		Link:        "",
		Description: "text",
	}, feed)

	assert.Equal(t, "Без заголовка", item.Title)
	assert.Equal(t, "#", item.Link)
	assert.Equal(t, now, item.PubDate)
	assert.Equal(t, "ТАСС", item.Source)
	assert.Equal(t, domain.CategoryRussia, item.Category)
	assert.Equal(t, "15 янв., 12:30", item.FormattedDate)
	assert.False(t, item.IsManual)
}

func TestNormalizer_Normalize_KeepsItemDate(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 30, 0, 0, time.UTC)
	pub := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)
	n := testNormalizer(now)

	item := n.Normalize(domain.Item{
		Title:   "Заголовок",
		Link:    "https://example.com/news",
		PubDate: pub,
	}, domain.FeedDescriptor{Name: "РИА", Category: domain.CategoryWorld})

	assert.Equal(t, pub, item.PubDate)
	assert.Equal(t, "31 дек., 23:59", item.FormattedDate)
}

func TestNormalizer_Normalize_TruncatesTitle(t *testing.T) {
	n := testNormalizer(time.Now())
	long := strings.Repeat("а", 250)

	item := n.Normalize(domain.Item{Title: long, Link: "https://example.com"}, domain.FeedDescriptor{})

	runes := []rune(item.Title)
	assert.Len(t, runes, 200)
	assert.Equal(t, strings.Repeat("а", 197)+"...", item.Title)
}

func TestNormalizer_Normalize_StripsHTML(t *testing.T) {
	n := testNormalizer(time.Now())

	item := n.Normalize(domain.Item{
		Title:       "Заголовок",
		Link:        "https://example.com",
		Description: "<p>Первый  <b>абзац</b>.</p><p>Второй.</p>",
	}, domain.FeedDescriptor{})

	assert.Equal(t, "<p>Первый  <b>абзац</b>.</p><p>Второй.</p>", item.RawDescription)
	assert.Equal(t, "Первый абзац . Второй.", item.Description)
}

func TestNormalizer_ManualItem(t *testing.T) {
	now := time.Date(2025, 2, 1, 9, 5, 0, 0, time.UTC)
	n := testNormalizer(now)

	item := n.ManualItem("Срочно", "Описание события", "https://example.com/x", "Редакция", domain.CategorySVO)

	assert.True(t, item.IsManual)
	assert.Equal(t, "Срочно", item.Title)
	assert.Equal(t, "Описание события", item.Description)
	assert.Equal(t, "https://example.com/x", item.Link)
	assert.Equal(t, "Редакция", item.Source)
	assert.Equal(t, domain.CategorySVO, item.Category)
	assert.Equal(t, now, item.PubDate)
	assert.Equal(t, "01 февр., 09:05", item.FormattedDate)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "", StripHTML(""))
	assert.Equal(t, "обычный текст", StripHTML("обычный текст"))
	assert.Equal(t, "A & B", StripHTML("A &amp; B"))
	assert.Equal(t, "текст", StripHTML("<div><img src=\"x.png\"/>текст</div>"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "короткий", TruncateText("короткий", 20))
	assert.Equal(t, "дли...", TruncateText("длинный текст", 6))
	assert.Equal(t, "без лимита", TruncateText("без лимита", 0))
	assert.Equal(t, "лимит меньше многоточия", TruncateText("лимит меньше многоточия", 2))
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "раз два три", TruncateWords("раз два три", 5))
	assert.Equal(t, "раз два...", TruncateWords("раз два три четыре", 2))
	assert.Equal(t, "раз два три", TruncateWords("раз два три", 0))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "02 янв., 15:04", FormatDate(time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "09 мая, 00:00", FormatDate(time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC)))
}
