// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, кэш, движок, сервисы, уведомления,
// планировщик и HTTP-сервер.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"glowkids.ru/activity-engine/internal/cache"
	"glowkids.ru/activity-engine/internal/config"
	"glowkids.ru/activity-engine/internal/db/postgres"
	"glowkids.ru/activity-engine/internal/features/activity"
	"glowkids.ru/activity-engine/internal/features/reminders"
	"glowkids.ru/activity-engine/internal/features/subjects"
	"glowkids.ru/activity-engine/internal/jobs"
	"glowkids.ru/activity-engine/internal/notify"
	"glowkids.ru/activity-engine/internal/transport/rest"
	"glowkids.ru/activity-engine/internal/transport/rest/middleware"
)

// App содержит все компоненты приложения.
type App struct {
	HTTP      *http.Server
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	Redis     *redis.Client // nil, если кэш отключён
	Limiter   *middleware.RateLimiter
	Activity  *activity.Service
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	if err := postgres.RunMigrations(ctx, pool, postgres.Migrations); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Кэш стриков ===
	redisClient, streakCache := newStreakCache(ctx, cfg)

	// === 3. Движок ===
	engine := activity.NewEngine(
		activity.WithLocation(loc),
		activity.WithGraceDays(cfg.StreakGraceDays),
		activity.WithThresholds(activity.Thresholds{
			Medium: cfg.HeatmapMediumThreshold,
			High:   cfg.HeatmapHighThreshold,
		}),
	)

	// === 4. Репозитории и сервисы ===
	activityService := activity.NewService(activity.NewRepository(pool, loc), engine, streakCache, cfg.MaxLookbackDays)
	subjectService := subjects.NewService(subjects.NewRepository(pool))

	// === 5. Уведомления ===
	notifier := newNotifier(ctx, cfg)
	reminderService := reminders.NewService(activityService, subjectService, notifier, engine.Now, reminders.Settings{
		StreakThreshold: cfg.ReminderStreakThreshold,
		ReminderHour:    cfg.ReminderHour,
	})

	// === 6. Планировщик задач ===
	scheduler := jobs.NewScheduler(reminderService, loc, jobs.Options{
		Reminders:     cfg.FeatureRemindersEnabled,
		MonthlyReport: cfg.FeatureMonthlyReportEnabled,
	})

	// === 7. HTTP ===
	auth := middleware.NewAPIKeyAuth(cfg.APIKeyHash)
	if !auth.Enabled() {
		log.Warn("API_KEY_HASH не задан — API доступно без ключа")
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	router := rest.NewRouter(&rest.Container{
		Activity:    activityService,
		Subjects:    subjectService,
		Today:       engine.Today,
		DefaultDays: cfg.DefaultLookbackDays,
		Auth:        auth,
		Limiter:     limiter,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		HTTP:      srv,
		Scheduler: scheduler,
		DB:        pool,
		Redis:     redisClient,
		Limiter:   limiter,
		Activity:  activityService,
	}, nil
}

// Close освобождает ресурсы в обратном порядке.
func (a *App) Close() {
	a.Limiter.Close()
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.WithError(err).Warn("Ошибка закрытия Redis")
		}
	}
	a.DB.Close()
}

// newStreakCache подключает Redis. Без REDIS_ADDR или при недоступном Redis
// стрики считаются на каждый запрос.
func newStreakCache(ctx context.Context, cfg *config.Config) (*redis.Client, activity.StreakCache) {
	if cfg.RedisAddr == "" || cfg.StreakCacheTTL == 0 {
		log.Info("Кэш стриков отключён")
		return nil, nil
	}
	client, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Warn("Кэш стриков недоступен, работаем без него")
		return nil, nil
	}
	log.WithField("ttl", cfg.StreakCacheTTL.String()).Info("Кэш стриков подключён")
	return client, cache.NewStreakCache(client, cfg.StreakCacheTTL)
}

// newNotifier создаёт Telegram-бота. Без токена уведомления только пишутся в лог.
func newNotifier(ctx context.Context, cfg *config.Config) notify.Notifier {
	if cfg.TelegramBotToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN не задан — уведомления только в лог")
		return notify.LogOnly{}
	}
	tg, err := notify.NewTelegram(ctx, cfg.TelegramBotToken, cfg.AppEnv == "development")
	if err != nil {
		log.WithError(err).Error("Telegram недоступен — уведомления только в лог")
		return notify.LogOnly{}
	}
	return tg
}
