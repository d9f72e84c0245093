package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chbnews/internal/config"
	"chbnews/storage"
)

func newTestAdmin(t *testing.T) (*AdminService, *storage.MemoryStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := storage.NewMemoryStore()
	cfg := config.AdminConfig{DefaultPassword: "admin123", MinPasswordLength: 6}
	return NewAdminService(kv, cfg, logger), kv
}

func TestAdminService_VerifyPassword_Default(t *testing.T) {
	admin, _ := newTestAdmin(t)
	ctx := context.Background()

	assert.True(t, admin.VerifyPassword(ctx, "admin123"))
	assert.False(t, admin.VerifyPassword(ctx, "wrong"))
	assert.False(t, admin.VerifyPassword(ctx, ""))
}

func TestAdminService_ChangePassword(t *testing.T) {
	admin, _ := newTestAdmin(t)
	ctx := context.Background()

	require.NoError(t, admin.ChangePassword(ctx, "новый-пароль"))

	assert.True(t, admin.VerifyPassword(ctx, "новый-пароль"))
	assert.False(t, admin.VerifyPassword(ctx, "admin123"), "default password must stop working after change")
}

func TestAdminService_ChangePassword_TooShort(t *testing.T) {
	admin, _ := newTestAdmin(t)
	ctx := context.Background()

	err := admin.ChangePassword(ctx, "12345")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 6 characters")
	assert.True(t, admin.VerifyPassword(ctx, "admin123"), "failed change must not affect the current password")
}

func TestAdminService_ChangePassword_TrimsSpaces(t *testing.T) {
	admin, _ := newTestAdmin(t)
	ctx := context.Background()

	require.NoError(t, admin.ChangePassword(ctx, "  secret99  "))

	assert.True(t, admin.VerifyPassword(ctx, "secret99"))
}

func TestAdminService_PasswordSurvivesCacheKeys(t *testing.T) {
	admin, kv := newTestAdmin(t)
	ctx := context.Background()
	require.NoError(t, admin.ChangePassword(ctx, "secret99"))

	// Очистка новостных ключей не должна трогать пароль.
	require.NoError(t, kv.Delete(ctx, "newsData"))
	require.NoError(t, kv.Delete(ctx, "lastUpdate"))

	assert.True(t, admin.VerifyPassword(ctx, "secret99"))
}
