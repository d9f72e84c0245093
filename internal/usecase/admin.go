package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"chbnews/internal/config"
	"chbnews/storage"
)

// passwordKey — ключ сохраненного пароля администратора в хранилище состояния.
// Намеренно не входит в ключи кэша новостей: очистка кэша пароль не трогает.
const passwordKey = "adminPassword"

// AdminService отвечает за проверку и смену пароля администратора.
// Пароль хранится как строка сравнения; пока он не менялся, действует
// пароль по умолчанию из конфигурации.
type AdminService struct {
	store storage.Store
	cfg   config.AdminConfig
	log   *slog.Logger
}

// NewAdminService создает сервис администратора.
func NewAdminService(store storage.Store, cfg config.AdminConfig, log *slog.Logger) *AdminService {
	return &AdminService{
		store: store,
		cfg:   cfg,
		log:   log.With(slog.String("component", "admin")),
	}
}

// VerifyPassword сравнивает пароль с сохраненным (или с паролем по умолчанию,
// если сохраненного нет). Пустой пароль не проходит никогда.
func (a *AdminService) VerifyPassword(ctx context.Context, password string) bool {
	stored, err := a.store.Get(ctx, passwordKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			a.log.Warn("Failed to read stored admin password", slog.Any("error", err))
		}
		stored = a.cfg.DefaultPassword
	}
	return password != "" && password == stored
}

// ChangePassword сохраняет новый пароль администратора.
// Пароль короче минимальной длины отклоняется.
func (a *AdminService) ChangePassword(ctx context.Context, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)
	if utf8.RuneCountInString(newPassword) < a.cfg.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", a.cfg.MinPasswordLength)
	}
	if err := a.store.Set(ctx, passwordKey, newPassword); err != nil {
		return fmt.Errorf("failed to store admin password: %w", err)
	}
	a.log.Info("Admin password changed")
	return nil
}
