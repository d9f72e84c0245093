package storage

import (
	"context"
	"errors"
)

// ErrNotFound возвращается методом Get, когда ключ отсутствует в хранилище.
var ErrNotFound = errors.New("storage: key not found")

// Store определяет узкий key-value интерфейс хранилища состояния приложения.
// За ним может стоять любой бэкенд: Postgres, Redis или память для тестов.
// Delete идемпотентен: удаление отсутствующего ключа не является ошибкой.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Close()
}
