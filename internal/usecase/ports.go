package usecase

import (
	"context"
	"io"

	"chbnews/internal/domain"
)

// FeedFetcher определяет интерфейс для загрузки данных RSS-лент из внешних источников.
// Возвращает io.ReadCloser который должен быть закрыт после использования.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FeedParser определяет интерфейс для парсинга RSS-данных в доменную модель.
// Преобразует сырые данные в структурированные объекты Feed.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader) (*domain.Feed, error)
}

// CacheStore определяет контракт кэша датасета: сохранение с отметкой времени,
// чтение (nil — запись отсутствует или повреждена), вердикт об актуальности
// и очистка.
type CacheStore interface {
	Save(ctx context.Context, ds *domain.Dataset) error
	Load(ctx context.Context) *domain.Dataset
	IsValid(ctx context.Context) bool
	Clear(ctx context.Context) error
}

// categoryAggregator — внутренний контракт сборки одной рубрики.
// Выделен для подмены в тестах сценариев сборки датасета.
type categoryAggregator interface {
	Aggregate(ctx context.Context, category domain.Category) (domain.CategoryResult, error)
}
