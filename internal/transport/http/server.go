package http

import (
	"log/slog"
	"net/http"
)

// NewServer создает и настраивает HTTP-сервер с роутингом и middleware.
// Регистрирует эндпоинты API и добавляет middleware для логирования и CORS.
func NewServer(log *slog.Logger, h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/news", h.getNews)
	mux.HandleFunc("/api/news/preview", h.getPreview)
	mux.HandleFunc("/api/refresh", h.refresh)
	mux.HandleFunc("/api/digest", h.getDigest)
	mux.HandleFunc("/api/health", h.healthCheck)
	mux.HandleFunc("/api/admin/login", h.adminLogin)
	mux.HandleFunc("/api/admin/news", h.addManualNews)
	mux.HandleFunc("/api/admin/password", h.changePassword)
	mux.HandleFunc("/api/admin/cache/clear", h.clearCache)
	mux.HandleFunc("/api/admin/telegram", h.getTelegramText)
	var handler http.Handler = mux
	handler = loggingMiddleware(log)(handler)
	handler = corsMiddleware()(handler)
	return handler
}

// corsMiddleware создает middleware для обработки CORS (Cross-Origin Resource Sharing).
// Разрешает запросы с любого origin и обрабатывает preflight OPTIONS запросы.
func corsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+adminPasswordHeader)
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
