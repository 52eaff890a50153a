// Package activity — service.go связывает источник записей, движок и кэш стриков.
// Сервис загружает ровно то окно, которое нужно расчёту, и отдаёт результат вызывающему.
package activity

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	log "github.com/sirupsen/logrus"

	"glowkids.ru/activity-engine/internal/common"
)

// EventSource — внешний источник записей (в продакшене — Repository).
type EventSource interface {
	ListEvents(ctx context.Context, subjectID string) ([]CompletionEvent, error)
	ListEventsBetween(ctx context.Context, subjectID string, from, to civil.Date) ([]CompletionEvent, error)
}

// StreakCache — кэш готовых стриков с явным TTL.
// Get возвращает nil, nil при промахе.
type StreakCache interface {
	Get(ctx context.Context, subjectID string, day civil.Date) (*StreakResult, error)
	Set(ctx context.Context, subjectID string, day civil.Date, result StreakResult) error
}

// Service отдаёт производные данные активности по профилю.
type Service struct {
	source      EventSource
	engine      *Engine
	cache       StreakCache // Может быть nil — тогда считаем каждый раз
	maxLookback int
}

// NewService создаёт сервис активности.
func NewService(source EventSource, engine *Engine, cache StreakCache, maxLookback int) *Service {
	if maxLookback <= 0 {
		maxLookback = 366
	}
	return &Service{
		source:      source,
		engine:      engine,
		cache:       cache,
		maxLookback: maxLookback,
	}
}

// Engine возвращает движок сервиса.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Streak возвращает стрик профиля. Результат кэшируется на (профиль, сегодня),
// поэтому смена дня сама инвалидирует кэш.
func (s *Service) Streak(ctx context.Context, subjectID string) (StreakResult, error) {
	if err := checkSubject(subjectID); err != nil {
		return StreakResult{}, err
	}
	today := s.engine.Today()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, subjectID, today)
		if err != nil {
			log.WithError(err).WithField("subject_id", subjectID).Warn("Кэш стриков недоступен")
		} else if cached != nil {
			return *cached, nil
		}
	}

	events, err := s.source.ListEvents(ctx, subjectID)
	if err != nil {
		return StreakResult{}, fmt.Errorf("ошибка загрузки истории: %w", err)
	}
	result, err := s.engine.ComputeStreak(subjectID, events)
	if err != nil {
		return StreakResult{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, subjectID, today, result); err != nil {
			log.WithError(err).WithField("subject_id", subjectID).Warn("Не удалось сохранить стрик в кэш")
		}
	}
	return result, nil
}

// DailySummaries возвращает итоги по дням окна [from, to].
func (s *Service) DailySummaries(ctx context.Context, subjectID string, from, to civil.Date) ([]DaySummary, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	if DaysInclusive(from, to) > s.maxLookback {
		return nil, fmt.Errorf("%w: окно больше %d дней", common.ErrInvalidRange, s.maxLookback)
	}
	events, err := s.load(ctx, subjectID, from, to)
	if err != nil {
		return nil, err
	}
	return s.engine.ComputeDailySummaries(subjectID, events, from, to)
}

// MonthlyStats возвращает итоги месяца или nil, если записей не было.
func (s *Service) MonthlyStats(ctx context.Context, subjectID string, year int, month time.Month) (*MonthlyStats, error) {
	first, last, err := MonthBounds(year, month)
	if err != nil {
		return nil, err
	}
	events, err := s.load(ctx, subjectID, first, last)
	if err != nil {
		return nil, err
	}
	return s.engine.ComputeMonthlyStats(subjectID, events, year, month)
}

// CompletionRateMonthToDate — процент активных дней с 1-го числа по сегодня.
func (s *Service) CompletionRateMonthToDate(ctx context.Context, subjectID string) (int, error) {
	from, to := s.engine.MonthToDate()
	return s.completionRate(ctx, subjectID, from, to)
}

// CompletionRateLookback — процент активных дней за последние days дней.
func (s *Service) CompletionRateLookback(ctx context.Context, subjectID string, days int) (int, error) {
	from, to, err := s.lookback(days)
	if err != nil {
		return 0, err
	}
	return s.completionRate(ctx, subjectID, from, to)
}

// CompletionRateBetween — процент активных дней в произвольном окне.
func (s *Service) CompletionRateBetween(ctx context.Context, subjectID string, from, to civil.Date) (int, error) {
	if err := checkRange(from, to); err != nil {
		return 0, err
	}
	return s.completionRate(ctx, subjectID, from, to)
}

func (s *Service) completionRate(ctx context.Context, subjectID string, from, to civil.Date) (int, error) {
	events, err := s.load(ctx, subjectID, from, to)
	if err != nil {
		return 0, err
	}
	return s.engine.ComputeCompletionRate(subjectID, events, from, to)
}

// Calendar возвращает тепловую карту за последние days дней.
// dense = true заполняет пустые дни уровнем none.
func (s *Service) Calendar(ctx context.Context, subjectID string, days int, dense bool) ([]CalendarDay, error) {
	from, to, err := s.lookback(days)
	if err != nil {
		return nil, err
	}
	events, err := s.load(ctx, subjectID, from, to)
	if err != nil {
		return nil, err
	}
	// Окно считается один раз: загрузка и расчёт видят одно и то же «сегодня».
	heatmap := s.engine.calendarBetween(subjectID, events, from, to)
	if dense {
		return FillCalendar(heatmap, from, to), nil
	}
	return heatmap, nil
}

// Segments возвращает разбивку по времени суток за последние days дней.
func (s *Service) Segments(ctx context.Context, subjectID string, days int) (SegmentBreakdown, error) {
	from, to, err := s.lookback(days)
	if err != nil {
		return SegmentBreakdown{}, err
	}
	events, err := s.load(ctx, subjectID, from, to)
	if err != nil {
		return SegmentBreakdown{}, err
	}
	return segmentsBetween(subjectID, events, from, to), nil
}

func (s *Service) lookback(days int) (civil.Date, civil.Date, error) {
	if days > s.maxLookback {
		return civil.Date{}, civil.Date{}, fmt.Errorf("%w: максимум %d", common.ErrInvalidLookback, s.maxLookback)
	}
	return s.engine.Lookback(days)
}

// load загружает окно записей; ошибки хранилища оборачиваются и уходят наверх.
func (s *Service) load(ctx context.Context, subjectID string, from, to civil.Date) ([]CompletionEvent, error) {
	if err := checkSubject(subjectID); err != nil {
		return nil, err
	}
	events, err := s.source.ListEventsBetween(ctx, subjectID, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки записей за %s..%s: %w", from, to, err)
	}
	return events, nil
}
