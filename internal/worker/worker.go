package worker

import (
	"context"
	"log/slog"
	"time"

	"chbnews/internal/domain"
)

// buildTimeout ограничивает одну пересборку датасета в фоне.
const buildTimeout = 2 * time.Minute

// DatasetRefresher определяет интерфейс автообновления датасета.
// Используется для внедрения зависимости в воркер.
type DatasetRefresher interface {
	CacheValid(ctx context.Context) bool
	BuildAll(ctx context.Context) (*domain.Dataset, error)
}

// Worker реализует фоновое автообновление новостей: по расписанию
// проверяет актуальность кэша и пересобирает датасет, когда тот устарел.
type Worker struct {
	refresher DatasetRefresher
	interval  time.Duration
	log       *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// New создает воркер автообновления.
// Принимает сервис датасета, интервал проверки и логгер.
func New(refresher DatasetRefresher, interval time.Duration, log *slog.Logger) *Worker {
	return &Worker{
		refresher: refresher,
		interval:  interval,
		log:       log,
	}
}

// Start запускает воркер в отдельной горутине.
func (w *Worker) Start() {
	w.ctx, w.cancel = context.WithCancel(context.Background())
	go w.run()
}

// Stop останавливает воркер путем отмены контекста.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
}

// GetInterval возвращает интервал проверки актуальности кэша.
func (w *Worker) GetInterval() time.Duration { return w.interval }

// run выполняет основной цикл работы воркера.
func (w *Worker) run() {
	w.log.Info("Auto-update worker started",
		slog.String("component", "worker"),
		slog.String("interval", w.interval.String()),
	)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.refreshIfStale()
	for {
		select {
		case <-ticker.C:
			w.refreshIfStale()
		case <-w.ctx.Done():
			w.log.Info("Worker stopping", slog.String("component", "worker"))
			return
		}
	}
}

// refreshIfStale пересобирает датасет, если кэш устарел или отсутствует.
// Актуальный кэш оставляется как есть до следующей проверки.
func (w *Worker) refreshIfStale() {
	opCtx, opCancel := context.WithTimeout(w.ctx, buildTimeout)
	defer opCancel()

	if w.refresher.CacheValid(opCtx) {
		w.log.Debug("Cache is still valid, skipping refresh", slog.String("component", "worker"))
		return
	}
	start := time.Now()
	ds, err := w.refresher.BuildAll(opCtx)
	if err != nil {
		w.log.Error("Auto-update failed",
			slog.String("component", "worker"),
			slog.Any("error", err),
		)
		return
	}
	w.log.Info("Auto-update completed",
		slog.String("component", "worker"),
		slog.Int("total_news", ds.TotalNews),
		slog.Duration("duration", time.Since(start)),
	)
}
