package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore хранит состояние приложения в таблице app_state.
// Каждая запись перезаписывается целиком (upsert по ключу).
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresStore создает хранилище состояния поверх пула соединений.
func NewPostgresStore(pool *pgxpool.Pool, log *slog.Logger) *PostgresStore {
	log.Info("Initializing Postgres state storage", slog.String("component", "storage"))
	return &PostgresStore{
		pool: pool,
		log:  log,
	}
}

// Get возвращает значение ключа или ErrNotFound, если ключ отсутствует.
func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM app_state WHERE key = $1;`
	var value string
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		s.log.Error("Database query failed",
			slog.String("component", "storage"),
			slog.String("key", key),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, nil
}

// Set записывает значение ключа, перезаписывая прежнее.
func (s *PostgresStore) Set(ctx context.Context, key string, value string) error {
	const query = `
	INSERT INTO app_state (key, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now();
	`
	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		s.log.Error("Database upsert failed",
			slog.String("component", "storage"),
			slog.String("key", key),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

// Delete удаляет ключ. Отсутствующий ключ не является ошибкой.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM app_state WHERE key = $1;`
	if _, err := s.pool.Exec(ctx, query, key); err != nil {
		s.log.Error("Database delete failed",
			slog.String("component", "storage"),
			slog.String("key", key),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Close закрывает пул соединений с базой данных.
func (s *PostgresStore) Close() {
	s.log.Info("Closing database connection pool", slog.String("component", "storage"))
	s.pool.Close()
}
