package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"chbnews/internal/domain"
)

// Aggregator собирает новости одной рубрики: параллельно загружает все
// настроенные ленты, объединяет удачные результаты, сортирует по свежести
// и обрезает до лимита рубрики.
type Aggregator struct {
	fetcher  FeedFetcher
	parser   FeedParser
	norm     *Normalizer
	registry map[domain.Category][]domain.FeedDescriptor
	timeout  time.Duration
	limit    int
	log      *slog.Logger
}

// NewAggregator создает сборщик рубрик.
// Принимает зависимости: загрузчик, парсер, нормализатор, реестр лент,
// таймаут одного запроса и лимит новостей рубрики.
func NewAggregator(
	fetcher FeedFetcher,
	parser FeedParser,
	norm *Normalizer,
	registry map[domain.Category][]domain.FeedDescriptor,
	timeout time.Duration,
	limit int,
	log *slog.Logger,
) *Aggregator {
	return &Aggregator{
		fetcher:  fetcher,
		parser:   parser,
		norm:     norm,
		registry: registry,
		timeout:  timeout,
		limit:    limit,
		log:      log,
	}
}

// fetchFeed загружает, разбирает и нормализует одну ленту.
// Никогда не возвращает ошибку наружу: сбой сети, таймаут или ошибка разбора
// гасятся на этой границе, и лента просто не дает новостей. Таймаут отменяет
// только этот запрос и не влияет на соседние ленты.
func (a *Aggregator) fetchFeed(ctx context.Context, feed domain.FeedDescriptor) domain.FeedResult {
	log := a.log.With(
		slog.String("component", "aggregator"),
		slog.String("feed", feed.Name),
		slog.String("category", string(feed.Category)),
	)
	opCtx, opCancel := context.WithTimeout(ctx, a.timeout)
	defer opCancel()

	reader, err := a.fetcher.Fetch(opCtx, feed.URL)
	if err != nil {
		log.Warn("Feed fetch failed",
			slog.String("stage", "fetch"),
			slog.Any("error", err),
		)
		return domain.FeedResult{Source: feed.Name}
	}
	defer reader.Close()

	parsed, err := a.parser.Parse(opCtx, reader)
	if err != nil {
		log.Warn("Feed parsing failed",
			slog.String("stage", "parse"),
			slog.Any("error", err),
		)
		return domain.FeedResult{Source: feed.Name}
	}

	items := make([]domain.NewsItem, 0, len(parsed.Items))
	for _, raw := range parsed.Items {
		items = append(items, a.norm.Normalize(raw, feed))
	}
	log.Debug("Feed processed", slog.Int("items_found", len(items)))
	return domain.FeedResult{Source: feed.Name, Items: items}
}

// Aggregate собирает рубрику целиком. Все ленты рубрики загружаются
// параллельно; барьер ждет завершения каждой, и отказавшая лента не
// блокирует и не отменяет остальные. Сортировка и обрезка до лимита
// выполняются после слияния, а не по отдельным лентам. Ленты без новостей
// не попадают в список источников. Единственная ошибка — отмена контекста.
func (a *Aggregator) Aggregate(ctx context.Context, category domain.Category) (domain.CategoryResult, error) {
	feeds := a.registry[category]
	if len(feeds) == 0 {
		return domain.CategoryResult{Items: []domain.NewsItem{}, Sources: []string{}}, nil
	}
	start := time.Now()
	results := make([]domain.FeedResult, len(feeds))
	var wg sync.WaitGroup
	for i, feed := range feeds {
		wg.Add(1)
		go func(i int, f domain.FeedDescriptor) {
			defer wg.Done()
			results[i] = a.fetchFeed(ctx, f)
		}(i, feed)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return domain.CategoryResult{}, err
	}

	items := []domain.NewsItem{}
	sources := []string{}
	seen := make(map[string]struct{})
	for _, result := range results {
		if len(result.Items) == 0 {
			continue
		}
		items = append(items, result.Items...)
		if _, ok := seen[result.Source]; !ok {
			seen[result.Source] = struct{}{}
			sources = append(sources, result.Source)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PubDate.After(items[j].PubDate)
	})
	if len(items) > a.limit {
		items = items[:a.limit]
	}

	a.log.Info("Category aggregated",
		slog.String("component", "aggregator"),
		slog.String("category", string(category)),
		slog.Int("feeds_total", len(feeds)),
		slog.Int("sources", len(sources)),
		slog.Int("items_found", len(items)),
		slog.Duration("duration", time.Since(start)),
	)
	return domain.CategoryResult{Items: items, Sources: sources}, nil
}
