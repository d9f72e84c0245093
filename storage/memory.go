package storage

import (
	"context"
	"sync"
)

// MemoryStore хранит состояние приложения в памяти процесса.
// Используется в тестах и в конфигурации без внешнего хранилища.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore создает пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// Get возвращает значение ключа или ErrNotFound, если ключ отсутствует.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set записывает значение ключа, перезаписывая прежнее.
func (s *MemoryStore) Set(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete удаляет ключ. Отсутствующий ключ не является ошибкой.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Close ничего не делает: хранилище живет в памяти процесса.
func (s *MemoryStore) Close() {}
