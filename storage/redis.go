package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisStore хранит состояние приложения в Redis.
// Записи живут без TTL: актуальность кэша новостей проверяется
// выше по стеку по отметке времени, а не средствами Redis.
type RedisStore struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisStore создает хранилище состояния поверх клиента Redis.
func NewRedisStore(client *redis.Client, log *slog.Logger) *RedisStore {
	log.Info("Initializing Redis state storage", slog.String("component", "storage"))
	return &RedisStore{
		client: client,
		log:    log,
	}
}

// Get возвращает значение ключа или ErrNotFound, если ключ отсутствует.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		s.log.Error("Redis get failed",
			slog.String("component", "storage"),
			slog.String("key", key),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, nil
}

// Set записывает значение ключа, перезаписывая прежнее.
func (s *RedisStore) Set(ctx context.Context, key string, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		s.log.Error("Redis set failed",
			slog.String("component", "storage"),
			slog.String("key", key),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

// Delete удаляет ключ. Отсутствующий ключ не является ошибкой.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.Error("Redis delete failed",
			slog.String("component", "storage"),
			slog.String("key", key),
			slog.Any("error", err),
		)
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (s *RedisStore) Close() {
	if err := s.client.Close(); err != nil {
		s.log.Error("Redis close failed",
			slog.String("component", "storage"),
			slog.Any("error", err),
		)
	}
}
