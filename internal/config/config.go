package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"chbnews/internal/domain"
)

// Config представляет полную конфигурацию агрегатора.
// Содержит настройки сервера, логгера, сбора новостей, отображения,
// Telegram-дайджеста, администратора и хранилища состояния.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Logger   LoggerConfig   `json:"logger"`
	App      AppConfig      `json:"app"`
	Display  DisplayConfig  `json:"display"`
	Telegram TelegramConfig `json:"telegram"`
	Admin    AdminConfig    `json:"admin"`
	Database DatabaseConfig `json:"database"`
}

// ServerConfig содержит настройки HTTP-сервера приложения.
type ServerConfig struct {
	Address string `json:"address"`
}

// LoggerConfig определяет уровень детализации логов (debug, info, warn, error).
type LoggerConfig struct {
	Level string `json:"level"`
}

// FeedURL представляет конфигурацию отдельной RSS-ленты рубрики.
type FeedURL struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AppConfig содержит настройки сбора и кэширования новостей:
// список лент по рубрикам, таймаут запроса, окно актуальности кэша
// и интервал автообновления (0 — отключено).
type AppConfig struct {
	Feeds                     map[domain.Category][]FeedURL `json:"feeds"`
	RequestTimeoutMs          int                           `json:"request_timeout_ms"`
	CacheDurationMinutes      int                           `json:"cache_duration_minutes"`
	AutoUpdateIntervalMinutes int                           `json:"auto_update_interval_minutes"`
}

// RequestTimeout возвращает таймаут одного запроса к RSS-ленте.
func (c AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// CacheDuration возвращает окно актуальности кэша.
func (c AppConfig) CacheDuration() time.Duration {
	return time.Duration(c.CacheDurationMinutes) * time.Minute
}

// AutoUpdateInterval возвращает интервал автообновления.
func (c AppConfig) AutoUpdateInterval() time.Duration {
	return time.Duration(c.AutoUpdateIntervalMinutes) * time.Minute
}

// DisplayConfig содержит лимиты нормализации и отображения новостей.
type DisplayConfig struct {
	CategoryNewsCount   int `json:"category_news_count"`
	PreviewNewsCount    int `json:"preview_news_count"`
	TitleMaxLength      int `json:"title_max_length"`
	MaxDescriptionWords int `json:"max_description_words"`
}

// TelegramConfig содержит настройки генерации текста для Telegram-дайджеста.
type TelegramConfig struct {
	NewsPerCategory int    `json:"news_per_category"`
	MaxTitleLength  int    `json:"max_title_length"`
	SiteURL         string `json:"site_url"`
}

// AdminConfig содержит настройки администратора: пароль по умолчанию
// (рекомендуется сменить) и минимальную длину нового пароля.
type AdminConfig struct {
	DefaultPassword   string `json:"default_password"`
	MinPasswordLength int    `json:"min_password_length"`
}

// RedisConfig содержит параметры подключения к Redis.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// DatabaseConfig содержит настройки хранилища состояния приложения.
// Driver выбирает бэкенд: postgres, redis или memory.
type DatabaseConfig struct {
	Driver   string      `json:"driver"`
	Host     string      `json:"host"`
	Port     int         `json:"port"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	DBName   string      `json:"dbname"`
	SSLMode  string      `json:"sslmode"`
	Redis    RedisConfig `json:"redis"`
}

// DSN возвращает строку подключения к PostgreSQL в формате URI.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode)
}

// Load загружает конфигурацию из JSON-файла по указанному пути.
// Незаданные поля получают значения по умолчанию.
func Load(configPath string) (*Config, error) {
	cfg := New()
	fileData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := json.Unmarshal(fileData, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from file %s: %w", configPath, err)
	}
	return cfg, nil
}

// New создает новый экземпляр Config со значениями по умолчанию.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		App: AppConfig{
			Feeds:                     map[domain.Category][]FeedURL{},
			RequestTimeoutMs:          15000,
			CacheDurationMinutes:      60,
			AutoUpdateIntervalMinutes: 0,
		},
		Display: DisplayConfig{
			CategoryNewsCount:   12,
			PreviewNewsCount:    6,
			TitleMaxLength:      200,
			MaxDescriptionWords: 100,
		},
		Telegram: TelegramConfig{
			NewsPerCategory: 3,
			MaxTitleLength:  80,
			SiteURL:         "https://ваш-сайт.com",
		},
		Admin: AdminConfig{
			DefaultPassword:   "admin123",
			MinPasswordLength: 6,
		},
		Database: DatabaseConfig{
			Driver:  "memory",
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
	}
}

// Validate проверяет корректность конфигурации.
// Возвращает ошибку с описанием первой найденной проблемы.
func (c *Config) Validate() error {
	if c.App.RequestTimeoutMs <= 0 {
		return fmt.Errorf("app.request_timeout_ms must be a positive number")
	}
	if c.App.CacheDurationMinutes <= 0 {
		return fmt.Errorf("app.cache_duration_minutes must be a positive number")
	}
	if c.App.AutoUpdateIntervalMinutes < 0 {
		return fmt.Errorf("app.auto_update_interval_minutes must not be negative")
	}
	if c.Display.CategoryNewsCount <= 0 {
		return fmt.Errorf("display.category_news_count must be a positive number")
	}
	if c.Display.PreviewNewsCount <= 0 {
		return fmt.Errorf("display.preview_news_count must be a positive number")
	}
	if c.Display.TitleMaxLength <= 3 {
		return fmt.Errorf("display.title_max_length is too small")
	}
	if c.Display.MaxDescriptionWords <= 0 {
		return fmt.Errorf("display.max_description_words must be a positive number")
	}
	if c.Telegram.NewsPerCategory <= 0 {
		return fmt.Errorf("telegram.news_per_category must be a positive number")
	}
	if c.Telegram.MaxTitleLength <= 3 {
		return fmt.Errorf("telegram.max_title_length is too small")
	}
	if c.Admin.MinPasswordLength <= 0 {
		return fmt.Errorf("admin.min_password_length must be a positive number")
	}
	for category, feeds := range c.App.Feeds {
		if !category.IsValid() {
			return fmt.Errorf("unknown category in app.feeds: %q", category)
		}
		for _, feed := range feeds {
			if _, err := url.ParseRequestURI(feed.URL); err != nil {
				return fmt.Errorf("invalid url in app.feeds[%s]: %s", category, feed.URL)
			}
			if feed.Name == "" {
				return fmt.Errorf("feed name cannot be empty for url: %s", feed.URL)
			}
		}
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is not set")
		}
		if c.Database.Username == "" {
			return fmt.Errorf("database.username is not set")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is not set")
		}
	case "redis":
		if c.Database.Redis.Addr == "" {
			return fmt.Errorf("database.redis.addr is not set")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database.driver: %q", c.Database.Driver)
	}
	return nil
}

// Registry строит реестр лент по рубрикам из конфигурации.
func (c *Config) Registry() map[domain.Category][]domain.FeedDescriptor {
	registry := make(map[domain.Category][]domain.FeedDescriptor, len(c.App.Feeds))
	for category, feeds := range c.App.Feeds {
		descriptors := make([]domain.FeedDescriptor, 0, len(feeds))
		for _, feed := range feeds {
			descriptors = append(descriptors, domain.FeedDescriptor{
				Name:     feed.Name,
				URL:      feed.URL,
				Category: category,
			})
		}
		registry[category] = descriptors
	}
	return registry
}
