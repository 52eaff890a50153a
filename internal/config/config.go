// Package config загружает конфигурацию сервиса из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"glowkids"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"glowkids"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Redis (кэш стриков) ---
	// Пустой адрес = кэш выключен, стрик считается на каждый запрос.
	RedisAddr      string        `envconfig:"REDIS_ADDR" default:""`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB        int           `envconfig:"REDIS_DB" default:"0"`
	StreakCacheTTL time.Duration `envconfig:"STREAK_CACHE_TTL" default:"30s"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	// Единая политика часового пояса: "сегодня" и даты из timestamp считаются в этой зоне.
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Engine ---
	StreakGraceDays        int `envconfig:"STREAK_GRACE_DAYS" default:"1"`
	HeatmapMediumThreshold int `envconfig:"HEATMAP_MEDIUM_THRESHOLD" default:"5"`
	HeatmapHighThreshold   int `envconfig:"HEATMAP_HIGH_THRESHOLD" default:"10"`
	DefaultLookbackDays    int `envconfig:"DEFAULT_LOOKBACK_DAYS" default:"30"`
	MaxLookbackDays        int `envconfig:"MAX_LOOKBACK_DAYS" default:"366"`

	// --- HTTP ---
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	// Argon2id-хеш API-ключа (scripts/generate_hash.go). Пустой = без авторизации.
	APIKeyHash string `envconfig:"API_KEY_HASH" default:""`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"60"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Telegram (уведомления родителям) ---
	// Пустой токен = уведомления только пишутся в лог.
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" default:""`

	// --- Reminders ---
	ReminderStreakThreshold int `envconfig:"REMINDER_STREAK_THRESHOLD" default:"3"`
	ReminderHour            int `envconfig:"REMINDER_HOUR" default:"18"`

	// --- Feature Flags ---
	FeatureRemindersEnabled     bool `envconfig:"FEATURE_REMINDERS_ENABLED" default:"true"`
	FeatureMonthlyReportEnabled bool `envconfig:"FEATURE_MONTHLY_REPORT_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Location возвращает часовой пояс приложения.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return nil, fmt.Errorf("неизвестный APP_TIMEZONE %q: %w", c.AppTimezone, err)
	}
	return loc, nil
}

func (c *Config) Validate() error {
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD не задан")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.StreakGraceDays < 0 {
		return fmt.Errorf("STREAK_GRACE_DAYS должен быть >= 0")
	}
	if c.HeatmapMediumThreshold < 2 || c.HeatmapHighThreshold <= c.HeatmapMediumThreshold {
		return fmt.Errorf("нужно 2 <= HEATMAP_MEDIUM_THRESHOLD < HEATMAP_HIGH_THRESHOLD")
	}
	if c.DefaultLookbackDays <= 0 || c.MaxLookbackDays < c.DefaultLookbackDays {
		return fmt.Errorf("нужно 0 < DEFAULT_LOOKBACK_DAYS <= MAX_LOOKBACK_DAYS")
	}
	if c.StreakCacheTTL < 0 {
		return fmt.Errorf("STREAK_CACHE_TTL не может быть отрицательным")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS и RATE_LIMIT_WINDOW должны быть > 0")
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("REMINDER_HOUR должен быть в диапазоне 0..23")
	}
	if c.ReminderStreakThreshold < 1 {
		return fmt.Errorf("REMINDER_STREAK_THRESHOLD должен быть >= 1")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
