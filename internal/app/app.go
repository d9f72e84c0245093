package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"chbnews/internal/adapter/fetcher"
	"chbnews/internal/adapter/parser"
	"chbnews/internal/cache"
	"chbnews/internal/config"
	"chbnews/internal/logger"
	"chbnews/internal/migrations"
	server "chbnews/internal/transport/http"
	"chbnews/internal/usecase"
	"chbnews/internal/worker"
	"chbnews/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App представляет основное приложение новостного агрегатора.
// Координирует работу всех компонентов: HTTP-сервера, воркера автообновления,
// хранилища состояния и системы логирования. Обеспечивает graceful shutdown.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	server   *http.Server
	worker   *worker.Worker
	store    storage.Store
	stopChan chan os.Signal
	wg       sync.WaitGroup
}

// New создает и инициализирует новый экземпляр приложения.
// Настраивает логгер, подключает выбранный бэкенд хранилища состояния,
// применяет миграции (для Postgres) и собирает все зависимости.
// Возвращает ошибку в случае сбоя любой из инициализационных процедур.
func New(cfg *config.Config) (*App, error) {
	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	slog.SetDefault(appLogger)

	store, err := newStore(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	cacheStore := cache.New(store, cfg.App.CacheDuration(), appLogger)

	httpFetcher := fetcher.NewHTTPFetcher(appLogger)
	xmlParser := parser.NewXMLParser(appLogger)
	normalizer := usecase.NewNormalizer(cfg.Display)
	aggregator := usecase.NewAggregator(
		httpFetcher,
		xmlParser,
		normalizer,
		cfg.Registry(),
		cfg.App.RequestTimeout(),
		cfg.Display.CategoryNewsCount,
		appLogger,
	)
	newsService := usecase.NewService(aggregator, cacheStore, cfg.Display.PreviewNewsCount, appLogger)
	adminService := usecase.NewAdminService(store, cfg.Admin, appLogger)

	handler := server.NewHandler(appLogger, newsService, adminService, normalizer, cfg.Telegram)
	router := server.NewServer(appLogger, handler)

	var updateWorker *worker.Worker
	if cfg.App.AutoUpdateIntervalMinutes > 0 {
		updateWorker = worker.New(newsService, cfg.App.AutoUpdateInterval(), appLogger)
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}
	return &App{
		config:   cfg,
		logger:   appLogger,
		server:   httpServer,
		worker:   updateWorker,
		store:    store,
		stopChan: make(chan os.Signal, 1),
	}, nil
}

// newStore создает хранилище состояния по настроенному драйверу.
func newStore(cfg *config.Config, log *slog.Logger) (storage.Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		pool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(context.Background()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
		if err := migrations.Apply(context.Background(), log, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		return storage.NewPostgresStore(pool, log), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Database.Redis.Addr,
			Password: cfg.Database.Redis.Password,
			DB:       cfg.Database.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return storage.NewRedisStore(client, log), nil
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver: %q", cfg.Database.Driver)
	}
}

// Run запускает приложение: воркер автообновления (если настроен) и
// HTTP-сервер. Метод блокируется до получения сигнала завершения.
func (a *App) Run() error {
	feedCount := 0
	for _, feeds := range a.config.App.Feeds {
		feedCount += len(feeds)
	}
	a.logger.Info("Starting News Aggregator",
		slog.String("component", "app"),
		slog.Int("feed_count", feedCount),
		slog.String("storage_driver", a.config.Database.Driver),
	)
	if a.worker != nil {
		a.worker.Start()
	}
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	defer listener.Close()
	a.logger.Info("HTTP server ready",
		slog.String("component", "server"),
		slog.String("address", listener.Addr().String()),
	)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server failed", slog.Any("error", err))
		}
	}()
	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-a.stopChan
	a.logger.Info("Shutdown signal received",
		slog.String("component", "app"),
		slog.String("signal", sig.String()),
	)
	return a.Shutdown()
}

// Shutdown выполняет graceful shutdown приложения.
// Останавливает воркер, завершает HTTP-сервер с таймаутом 10 секунд,
// закрывает хранилище состояния и ожидает завершения всех горутин.
func (a *App) Shutdown() error {
	a.logger.Info("Starting graceful shutdown")
	if a.worker != nil {
		a.worker.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	if a.store != nil {
		a.store.Close()
	}
	a.wg.Wait()
	a.logger.Info("Application stopped gracefully")
	return nil
}
