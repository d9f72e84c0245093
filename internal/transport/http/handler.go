package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chbnews/internal/config"
	"chbnews/internal/digest"
	"chbnews/internal/domain"
	"chbnews/internal/usecase"
)

// adminPasswordHeader — заголовок с паролем администратора для защищенных эндпоинтов.
const adminPasswordHeader = "X-Admin-Password"

type newsService interface {
	LoadOrBuild(ctx context.Context) (*domain.Dataset, error)
	BuildAll(ctx context.Context) (*domain.Dataset, error)
	RefreshCategory(ctx context.Context, category domain.Category) (*domain.Dataset, error)
	AddManualNews(ctx context.Context, item domain.NewsItem) (*domain.Dataset, error)
	ClearCache(ctx context.Context) error
	Preview(ctx context.Context) ([]domain.NewsItem, error)
}

type adminService interface {
	VerifyPassword(ctx context.Context, password string) bool
	ChangePassword(ctx context.Context, newPassword string) error
}

type Handler struct {
	log         *slog.Logger
	news        newsService
	admin       adminService
	norm        *usecase.Normalizer
	telegramCfg config.TelegramConfig
}

func NewHandler(
	log *slog.Logger,
	news newsService,
	admin adminService,
	norm *usecase.Normalizer,
	telegramCfg config.TelegramConfig,
) *Handler {
	return &Handler{
		log:         log,
		news:        news,
		admin:       admin,
		norm:        norm,
		telegramCfg: telegramCfg,
	}
}

// getNews - хендлер для эндпоинта GET /api/news.
// Отдает кэшированный датасет, пока тот актуален, иначе собирает заново.
func (h *Handler) getNews(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/getNews"
	log := h.log.With(slog.String("op", op))
	if r.Method != http.MethodGet {
		log.Warn("method not allowed")
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	ds, err := h.news.LoadOrBuild(r.Context())
	if err != nil {
		log.Error("Failed to get news dataset", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusOK, ds)
}

// getPreview - хендлер для эндпоинта GET /api/news/preview.
func (h *Handler) getPreview(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/getPreview"
	log := h.log.With(slog.String("op", op))
	if r.Method != http.MethodGet {
		log.Warn("method not allowed")
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	items, err := h.news.Preview(r.Context())
	if err != nil {
		log.Error("Failed to get preview", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

// refresh - хендлер для эндпоинта POST /api/refresh.
// Без параметров пересобирает весь датасет; с ?category= — одну рубрику.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/refresh"
	log := h.log.With(slog.String("op", op))
	if r.Method != http.MethodPost {
		log.Warn("method not allowed")
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	categoryStr := r.URL.Query().Get("category")
	var (
		ds  *domain.Dataset
		err error
	)
	if categoryStr == "" {
		ds, err = h.news.BuildAll(r.Context())
	} else {
		category := domain.Category(categoryStr)
		if !category.IsValid() {
			log.Warn("invalid category parameter", slog.String("category", categoryStr))
			respondWithError(w, http.StatusBadRequest, "Invalid 'category' parameter")
			return
		}
		ds, err = h.news.RefreshCategory(r.Context(), category)
	}
	if err != nil {
		log.Error("Refresh failed", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Failed to refresh news")
		return
	}
	respondWithJSON(w, http.StatusOK, ds)
}

// getDigest - хендлер для эндпоинта GET /api/digest.
// Отдает текстовый файл дайджеста как вложение.
func (h *Handler) getDigest(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/getDigest"
	log := h.log.With(slog.String("op", op))
	if r.Method != http.MethodGet {
		log.Warn("method not allowed")
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	ds, err := h.news.LoadOrBuild(r.Context())
	if err != nil {
		log.Error("Failed to get news dataset", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	now := time.Now()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(digest.FileName(now))))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(digest.Text(ds, now)))
}

// adminLogin - хендлер для эндпоинта POST /api/admin/login.
func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/adminLogin"
	log := h.log.With(slog.String("op", op))
	if r.Method != http.MethodPost {
		log.Warn("method not allowed")
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.admin.VerifyPassword(r.Context(), req.Password) {
		log.Warn("admin login rejected")
		respondWithError(w, http.StatusUnauthorized, "Invalid password")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// addManualNews - хендлер для эндпоинта POST /api/admin/news.
// Добавляет готовую новость администратора в начало её рубрики.
func (h *Handler) addManualNews(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/addManualNews"
	log := h.log.With(slog.String("op", op))
	if r.Method != http.MethodPost {
		log.Warn("method not allowed")
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
		Category    string `json:"category"`
		Source      string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.Description == "" || req.Link == "" || req.Category == "" || req.Source == "" {
		respondWithError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if !strings.HasPrefix(req.Link, "http://") && !strings.HasPrefix(req.Link, "https://") {
		respondWithError(w, http.StatusBadRequest, "Link must start with http:// or https://")
		return
	}
	category := domain.Category(req.Category)
	if !category.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Invalid 'category' field")
		return
	}
	item := h.norm.ManualItem(req.Title, req.Description, req.Link, req.Source, category)
	ds, err := h.news.AddManualNews(r.Context(), item)
	if err != nil {
		log.Error("Failed to add manual news", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Failed to add news")
		return
	}
	respondWithJSON(w, http.StatusOK, ds)
}

// changePassword - хендлер для эндпоинта POST /api/admin/password.
func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/changePassword"
	log := h.log.With(slog.String("op", op))
	if r.Method != http.MethodPost {
		log.Warn("method not allowed")
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.admin.ChangePassword(r.Context(), req.Password); err != nil {
		log.Warn("Password change rejected", slog.Any("error", err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clearCache - хендлер для эндпоинта POST /api/admin/cache/clear.
func (h *Handler) clearCache(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/clearCache"
	log := h.log.With(slog.String("op", op))
	if r.Method != http.MethodPost {
		log.Warn("method not allowed")
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}
	if err := h.news.ClearCache(r.Context()); err != nil {
		log.Error("Failed to clear cache", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Failed to clear cache")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getTelegramText - хендлер для эндпоинта GET /api/admin/telegram.
func (h *Handler) getTelegramText(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/getTelegramText"
	log := h.log.With(slog.String("op", op))
	if r.Method != http.MethodGet {
		log.Warn("method not allowed")
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}
	ds, err := h.news.LoadOrBuild(r.Context())
	if err != nil {
		log.Error("Failed to get news dataset", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"text": digest.TelegramText(ds, h.telegramCfg),
	})
}

// healthCheck - хендлер для проверки состояния сервиса.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAdmin проверяет пароль администратора из заголовка запроса.
// При неудаче сам пишет ответ 401 и возвращает false.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !h.admin.VerifyPassword(r.Context(), r.Header.Get(adminPasswordHeader)) {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return false
	}
	return true
}

// Вспомогательные функции для ответов
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
