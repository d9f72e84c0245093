package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chbnews/internal/domain"
	"chbnews/storage"
)

// Ключи кэша новостей в хранилище состояния. Остальные ключи
// (настройки администратора и т.п.) кэшу не принадлежат и не трогаются.
const (
	keyNewsData   = "newsData"
	keyLastUpdate = "lastUpdate"
)

// Store персистит датасет новостей вместе с отметкой времени сохранения
// и выносит вердикт об актуальности: запись считается валидной, пока
// с момента сохранения прошло не больше настроенного окна.
type Store struct {
	kv       storage.Store
	duration time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// Option настраивает Store при создании.
type Option func(*Store)

// WithClock подменяет источник времени. Используется в тестах
// для детерминированной проверки устаревания.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New создает кэш датасета поверх key-value хранилища.
func New(kv storage.Store, duration time.Duration, log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		duration: duration,
		log:      log.With(slog.String("component", "cache")),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save сериализует датасет и записывает его вместе с текущей отметкой времени,
// перезаписывая прежнюю запись. При ошибке сериализации или записи прежние
// данные в хранилище остаются нетронутыми.
func (s *Store) Save(ctx context.Context, ds *domain.Dataset) error {
	data, err := json.Marshal(ds)
	if err != nil {
		s.log.Error("Dataset serialization failed", slog.Any("error", err))
		return fmt.Errorf("failed to serialize dataset: %w", err)
	}
	if err := s.kv.Set(ctx, keyNewsData, string(data)); err != nil {
		return fmt.Errorf("failed to store dataset: %w", err)
	}
	if err := s.kv.Set(ctx, keyLastUpdate, s.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to store last update timestamp: %w", err)
	}
	s.log.Debug("Dataset saved to cache",
		slog.Int("total_news", ds.TotalNews),
		slog.Int("total_sources", ds.TotalSources),
	)
	return nil
}

// Load возвращает сохраненный датасет, если и данные, и отметка времени
// присутствуют и корректны. Поврежденная или неполная запись считается
// отсутствующей, а не ошибкой.
func (s *Store) Load(ctx context.Context) *domain.Dataset {
	raw, err := s.kv.Get(ctx, keyNewsData)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("Cache read failed, treating as miss", slog.Any("error", err))
		}
		return nil
	}
	if _, err := s.lastUpdate(ctx); err != nil {
		s.log.Warn("Cache timestamp missing or corrupt, treating as miss", slog.Any("error", err))
		return nil
	}
	var ds domain.Dataset
	if err := json.Unmarshal([]byte(raw), &ds); err != nil {
		s.log.Warn("Corrupt cache entry, treating as miss", slog.Any("error", err))
		return nil
	}
	return &ds
}

// IsValid сообщает, актуальна ли кэшированная запись: отметка времени
// существует и с момента сохранения прошло не больше окна актуальности.
func (s *Store) IsValid(ctx context.Context) bool {
	ts, err := s.lastUpdate(ctx)
	if err != nil {
		return false
	}
	return s.now().Sub(ts) <= s.duration
}

// Clear удаляет датасет и отметку времени. Остальные ключи хранилища
// не затрагиваются.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyNewsData); err != nil {
		return fmt.Errorf("failed to clear dataset: %w", err)
	}
	if err := s.kv.Delete(ctx, keyLastUpdate); err != nil {
		return fmt.Errorf("failed to clear last update timestamp: %w", err)
	}
	s.log.Info("News cache cleared")
	return nil
}

// lastUpdate читает и разбирает отметку времени последнего сохранения.
func (s *Store) lastUpdate(ctx context.Context) (time.Time, error) {
	raw, err := s.kv.Get(ctx, keyLastUpdate)
	if err != nil {
		return time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse last update timestamp %q: %w", raw, err)
	}
	return ts, nil
}
