package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chbnews/internal/config"
	"chbnews/internal/domain"
)

func sampleDataset() *domain.Dataset {
	ds := domain.NewDataset()
	ds.World = domain.CategoryResult{
		Items: []domain.NewsItem{
			{
				Title:            "Первая мировая новость",
				Link:             "https://example.com/1",
				ShortDescription: "Короткое описание первой новости.",
				Source:           "Рейтер",
				FormattedDate:    "15 янв., 12:00",
			},
			{
				Title:            "Вторая мировая новость",
				Link:             "https://example.com/2",
				ShortDescription: "Короткое описание второй новости.",
				Source:           "Рейтер",
				FormattedDate:    "15 янв., 11:30",
			},
		},
		Sources: []string{"Рейтер"},
	}
	ds.Russia = domain.CategoryResult{
		Items: []domain.NewsItem{{
			Title:            "Российская новость",
			Link:             "https://example.com/3",
			ShortDescription: "Описание.",
			Source:           "ТАСС",
			FormattedDate:    "15 янв., 10:00",
		}},
		Sources: []string{"ТАСС"},
	}
	ds.Recalculate()
	return ds
}

func TestText(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 30, 0, 0, time.UTC)
	text := Text(sampleDataset(), now)

	assert.Contains(t, text, "ЕЖЕДНЕВНЫЙ НОВОСТНОЙ ДАЙДЖЕСТ")
	assert.Contains(t, text, "📅 Дата формирования: 15 января 2025 г., 12:30")
	assert.Contains(t, text, "🌍 НОВОСТИ МИРА")
	assert.Contains(t, text, "🇷🇺 НОВОСТИ РОССИИ")
	assert.Contains(t, text, "⚔️ СПЕЦИАЛЬНАЯ ВОЕННАЯ ОПЕРАЦИЯ (СВО)")

	assert.Contains(t, text, "1. Первая мировая новость")
	assert.Contains(t, text, "2. Вторая мировая новость")
	assert.Contains(t, text, "1. Российская новость")
	assert.Contains(t, text, "   Источник: Рейтер | Время: 15 янв., 12:00")
	assert.Contains(t, text, "   Ссылка: https://example.com/1")
	assert.Contains(t, text, "Права на полные тексты принадлежат авторам.")
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 30, 0, 0, time.UTC)

	assert.Equal(t, "новостной_дайджест_2025-01-15.txt", FileName(now))
}

func TestTelegramText(t *testing.T) {
	ds := sampleDataset()
	longTitle := strings.Repeat("о", 120)
	ds.SVO = domain.CategoryResult{
		Items: []domain.NewsItem{
			{Title: longTitle, Source: "Звезда"},
			{Title: "вторая", Source: "Звезда"},
			{Title: "третья", Source: "Звезда"},
			{Title: "четвертая лишняя", Source: "Звезда"},
		},
		Sources: []string{"Звезда"},
	}
	ds.Recalculate()

	cfg := config.TelegramConfig{
		NewsPerCategory: 3,
		MaxTitleLength:  80,
		SiteURL:         "https://news.example.com",
	}
	text := TelegramText(ds, cfg)

	assert.Contains(t, text, "📰 НОВОСТНОЙ ДАЙДЖЕСТ")
	assert.Contains(t, text, "🌍 НОВОСТИ МИРА:")
	assert.Contains(t, text, "⚔️ НОВОСТИ СВО:")
	assert.Contains(t, text, "🔗 Подробнее: https://news.example.com")

	truncated := strings.Repeat("о", 77) + "..."
	assert.Contains(t, text, "1. "+truncated)
	require.NotContains(t, text, longTitle, "long titles must be truncated for telegram")
	assert.NotContains(t, text, "четвертая лишняя", "only the configured number of items per category")
	assert.Contains(t, text, "3. третья")
}

func TestTelegramText_DegenerateLimits(t *testing.T) {
	ds := sampleDataset()
	cfg := config.TelegramConfig{
		NewsPerCategory: -1,
		MaxTitleLength:  2,
		SiteURL:         "https://news.example.com",
	}

	var text string
	require.NotPanics(t, func() { text = TelegramText(ds, cfg) })

	assert.Contains(t, text, "1. Первая мировая новость", "unusable title limit must leave titles whole")
	assert.Contains(t, text, "2. Вторая мировая новость", "unusable per-category limit must leave the list whole")
}
