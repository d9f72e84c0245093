package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"chbnews/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Service реализует бизнес-логику работы с датасетом новостей:
// полную пересборку, чтение с учетом кэша, точечное обновление рубрики,
// ручные новости и очистку кэша.
//
// Все операции, изменяющие кэш, сериализуются одним мьютексом: повторное
// обновление поверх незавершенного превращается в last-write-wins по целой
// записи, а последовательности load-modify-save не теряют обновлений.
type Service struct {
	aggregator   categoryAggregator
	cache        CacheStore
	previewCount int
	log          *slog.Logger
	now          func() time.Time
	mu           sync.Mutex
}

// NewService создает сервис датасета новостей.
func NewService(aggregator categoryAggregator, cache CacheStore, previewCount int, log *slog.Logger) *Service {
	return &Service{
		aggregator:   aggregator,
		cache:        cache,
		previewCount: previewCount,
		log:          log.With(slog.String("component", "news")),
		now:          time.Now,
	}
}

// BuildAll пересобирает датасет целиком: все рубрики собираются параллельно
// под общим барьером. При успехе датасет с пересчитанными итогами
// сохраняется в кэш и возвращается; неудачное сохранение логируется, но
// свежий результат все равно отдается вызывающему. При ошибке барьера
// ничего не записывается — прежняя запись кэша остается нетронутой.
func (s *Service) BuildAll(ctx context.Context) (*domain.Dataset, error) {
	start := time.Now()
	s.log.Info("Dataset build started")

	ds := domain.NewDataset()
	g, gctx := errgroup.WithContext(ctx)
	for _, category := range domain.AllCategories {
		category := category
		g.Go(func() error {
			result, err := s.aggregator.Aggregate(gctx, category)
			if err != nil {
				return fmt.Errorf("category %s: %w", category, err)
			}
			*ds.Category(category) = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("Dataset build failed", slog.Any("error", err))
		return nil, fmt.Errorf("dataset build failed: %w", err)
	}
	ds.Timestamp = s.now()
	ds.Recalculate()

	s.mu.Lock()
	if err := s.cache.Save(ctx, ds); err != nil {
		s.log.Warn("Dataset cache save failed, serving uncached result", slog.Any("error", err))
	}
	s.mu.Unlock()

	s.log.Info("Dataset build completed",
		slog.Int("total_news", ds.TotalNews),
		slog.Int("total_sources", ds.TotalSources),
		slog.Duration("duration", time.Since(start)),
	)
	return ds, nil
}

// LoadOrBuild возвращает кэшированный датасет, пока тот актуален,
// и пересобирает его заново при отсутствии или устаревании записи.
func (s *Service) LoadOrBuild(ctx context.Context) (*domain.Dataset, error) {
	s.mu.Lock()
	if s.cache.IsValid(ctx) {
		if ds := s.cache.Load(ctx); ds != nil {
			s.mu.Unlock()
			s.log.Debug("Serving dataset from cache")
			return ds, nil
		}
	}
	s.mu.Unlock()
	return s.BuildAll(ctx)
}

// CacheValid сообщает, актуальна ли кэшированная запись датасета.
func (s *Service) CacheValid(ctx context.Context) bool {
	return s.cache.IsValid(ctx)
}

// RefreshCategory пересобирает одну рубрику и вписывает её в кэшированный
// датасет (или в пустой, если кэша нет), пересчитывая итоги. Запись кэша
// перезаписывается целиком.
func (s *Service) RefreshCategory(ctx context.Context, category domain.Category) (*domain.Dataset, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("unknown category: %q", category)
	}
	result, err := s.aggregator.Aggregate(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("category refresh failed for %s: %w", category, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ds := s.cache.Load(ctx)
	if ds == nil {
		ds = domain.NewDataset()
	}
	*ds.Category(category) = result
	ds.Timestamp = s.now()
	ds.Recalculate()
	if err := s.cache.Save(ctx, ds); err != nil {
		s.log.Warn("Dataset cache save failed after category refresh", slog.Any("error", err))
	}
	s.log.Info("Category refreshed",
		slog.String("category", string(category)),
		slog.Int("items_found", len(result.Items)),
	)
	return ds, nil
}

// AddManualNews добавляет готовую новость администратора в начало её рубрики,
// минуя загрузку лент, регистрирует источник и пересохраняет датасет.
// Лимит рубрики при этом не применяется до следующей полной пересборки.
func (s *Service) AddManualNews(ctx context.Context, item domain.NewsItem) (*domain.Dataset, error) {
	if !item.Category.IsValid() {
		return nil, fmt.Errorf("unknown category: %q", item.Category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ds := s.cache.Load(ctx)
	if ds == nil {
		ds = domain.NewDataset()
	}
	result := ds.Category(item.Category)
	result.Items = append([]domain.NewsItem{item}, result.Items...)
	if !slices.Contains(result.Sources, item.Source) {
		result.Sources = append(result.Sources, item.Source)
	}
	ds.Timestamp = s.now()
	ds.Recalculate()
	if err := s.cache.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to save manual news: %w", err)
	}
	s.log.Info("Manual news added",
		slog.String("category", string(item.Category)),
		slog.String("source", item.Source),
	)
	return ds, nil
}

// ClearCache удаляет кэшированный датасет. Настройки администратора
// и прочее состояние приложения не затрагиваются.
func (s *Service) ClearCache(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Clear(ctx)
}

// Preview возвращает первые новости объединенного списка всех рубрик
// для превью на главной странице.
func (s *Service) Preview(ctx context.Context) ([]domain.NewsItem, error) {
	ds, err := s.LoadOrBuild(ctx)
	if err != nil {
		return nil, err
	}
	all := ds.AllItems()
	if len(all) > s.previewCount {
		all = all[:s.previewCount]
	}
	return all, nil
}
