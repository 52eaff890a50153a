// Package reminders — service.go рассылает родителям напоминания о серии,
// поздравления с отметками и ежемесячные итоги.
//
// Все решения принимаются по результатам движка активности. Отметки
// «уже отправлено сегодня» хранятся в профиле, поэтому повторный запуск
// задачи в тот же день ничего не дублирует.
package reminders

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	log "github.com/sirupsen/logrus"

	"glowkids.ru/activity-engine/internal/features/activity"
	"glowkids.ru/activity-engine/internal/features/subjects"
	"glowkids.ru/activity-engine/internal/notify"
)

// ActivityReader — производные данные активности, нужные рассылкам.
type ActivityReader interface {
	Streak(ctx context.Context, subjectID string) (activity.StreakResult, error)
	MonthlyStats(ctx context.Context, subjectID string, year int, month time.Month) (*activity.MonthlyStats, error)
	CompletionRateBetween(ctx context.Context, subjectID string, from, to civil.Date) (int, error)
	Segments(ctx context.Context, subjectID string, days int) (activity.SegmentBreakdown, error)
}

// SubjectRegistry — профили, которым можно писать, и отметки об отправке.
type SubjectRegistry interface {
	ListNotifiable(ctx context.Context) ([]*subjects.Subject, error)
	MarkReminderSent(ctx context.Context, subj *subjects.Subject, day civil.Date) error
	MarkMilestoneNotified(ctx context.Context, subj *subjects.Subject, day civil.Date) error
}

// Settings — пороги рассылок.
type Settings struct {
	StreakThreshold int // Минимальная серия, ради которой стоит напоминать
	ReminderHour    int // Не раньше этого часа (местное время)
}

// MonthlyReport — итоги месяца для одного профиля.
type MonthlyReport struct {
	Year           int
	Month          time.Month
	DaysInMonth    int
	CompletionRate int
	Stats          activity.MonthlyStats
	MostActive     activity.Segment
}

// Service рассылает уведомления родителям.
type Service struct {
	activity ActivityReader
	subjects SubjectRegistry
	notifier notify.Notifier
	now      func() time.Time // Текущий момент в часовом поясе приложения
	settings Settings
}

// NewService создаёт сервис рассылок. now должен возвращать время в часовом поясе
// приложения (activity.Engine.Now).
func NewService(act ActivityReader, subj SubjectRegistry, notifier notify.Notifier, now func() time.Time, settings Settings) *Service {
	return &Service{
		activity: act,
		subjects: subj,
		notifier: notifier,
		now:      now,
		settings: settings,
	}
}

// SendReminders напоминает родителям, у чьих детей серия держится только
// за счёт периода «прощения»: последняя активность была раньше сегодняшнего дня.
// Возвращает число отправленных напоминаний.
func (s *Service) SendReminders(ctx context.Context) (int, error) {
	now := s.now()
	if now.Hour() < s.settings.ReminderHour {
		return 0, nil
	}
	today := civil.DateOf(now)

	list, err := s.subjects.ListNotifiable(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения профилей: %w", err)
	}

	sent := 0
	for _, subj := range list {
		if subj.RemindedOn(today) {
			continue
		}
		streak, err := s.activity.Streak(ctx, subj.ID)
		if err != nil {
			log.WithError(err).WithField("subject_id", subj.ID).Error("Ошибка расчёта стрика")
			continue
		}
		if !atRisk(streak, today, s.settings.StreakThreshold) {
			continue
		}
		if !s.deliver(ctx, subj, reminderText(subj.DisplayName, streak.CurrentStreak)) {
			continue
		}
		if err := s.subjects.MarkReminderSent(ctx, subj, today); err != nil {
			log.WithError(err).Error("Не удалось отметить напоминание")
		}
		sent++
	}

	log.WithFields(log.Fields{"sent": sent, "checked": len(list)}).Info("Напоминания о серии разосланы")
	return sent, nil
}

// SendMilestones поздравляет родителей, чьи дети сегодня достигли отметки серии.
func (s *Service) SendMilestones(ctx context.Context) (int, error) {
	today := civil.DateOf(s.now())

	list, err := s.subjects.ListNotifiable(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения профилей: %w", err)
	}

	sent := 0
	for _, subj := range list {
		if subj.CongratulatedOn(today) {
			continue
		}
		streak, err := s.activity.Streak(ctx, subj.ID)
		if err != nil {
			log.WithError(err).WithField("subject_id", subj.ID).Error("Ошибка расчёта стрика")
			continue
		}
		if streak.LastActiveDate == nil || *streak.LastActiveDate != today || !IsMilestone(streak.CurrentStreak) {
			continue
		}
		if !s.deliver(ctx, subj, milestoneText(subj.DisplayName, streak.CurrentStreak)) {
			continue
		}
		if err := s.subjects.MarkMilestoneNotified(ctx, subj, today); err != nil {
			log.WithError(err).Error("Не удалось отметить поздравление")
		}
		sent++
	}

	if sent > 0 {
		log.WithField("sent", sent).Info("Поздравления с отметками разосланы")
	}
	return sent, nil
}

// SendMonthlyReports рассылает итоги прошлого месяца. Месяцы без записей пропускаются.
func (s *Service) SendMonthlyReports(ctx context.Context) (int, error) {
	today := civil.DateOf(s.now())
	prev := civil.Date{Year: today.Year, Month: today.Month, Day: 1}.AddDays(-1)

	list, err := s.subjects.ListNotifiable(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения профилей: %w", err)
	}

	sent := 0
	for _, subj := range list {
		report, err := s.BuildMonthlyReport(ctx, subj.ID, prev.Year, prev.Month)
		if err != nil {
			log.WithError(err).WithField("subject_id", subj.ID).Error("Ошибка расчёта итогов месяца")
			continue
		}
		if report == nil {
			continue
		}
		if s.deliver(ctx, subj, monthlyReportText(subj.DisplayName, *report)) {
			sent++
		}
	}

	log.WithFields(log.Fields{
		"month": activity.FormatMonth(prev.Year, prev.Month),
		"sent":  sent,
	}).Info("Итоги месяца разосланы")
	return sent, nil
}

// BuildMonthlyReport собирает итоги месяца или возвращает nil, если записей не было.
func (s *Service) BuildMonthlyReport(ctx context.Context, subjectID string, year int, month time.Month) (*MonthlyReport, error) {
	stats, err := s.activity.MonthlyStats(ctx, subjectID, year, month)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, nil
	}

	first, last, err := activity.MonthBounds(year, month)
	if err != nil {
		return nil, err
	}
	rate, err := s.activity.CompletionRateBetween(ctx, subjectID, first, last)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		Year:           year,
		Month:          month,
		DaysInMonth:    activity.DaysInclusive(first, last),
		CompletionRate: rate,
		Stats:          *stats,
	}

	// Разбивка считается окном, заканчивающимся сегодня; окно покрывает весь месяц.
	today := civil.DateOf(s.now())
	if !today.Before(first) {
		segments, err := s.activity.Segments(ctx, subjectID, activity.DaysInclusive(first, today))
		if err != nil {
			log.WithError(err).WithField("subject_id", subjectID).Warn("Разбивка по времени суток недоступна")
		} else {
			report.MostActive = segments.MostActive
		}
	}
	return report, nil
}

// deliver отправляет сообщение и сообщает об успехе.
func (s *Service) deliver(ctx context.Context, subj *subjects.Subject, text string) bool {
	if !subj.HasParentChat() {
		return false
	}
	if err := s.notifier.Send(ctx, *subj.ParentChatID, text); err != nil {
		log.WithError(err).WithField("subject_id", subj.ID).Error("Ошибка отправки уведомления")
		return false
	}
	return true
}

// atRisk — серия достаточно длинная и жива, но сегодня активности ещё не было.
func atRisk(streak activity.StreakResult, today civil.Date, threshold int) bool {
	if streak.CurrentStreak < threshold || streak.CurrentStreak == 0 {
		return false
	}
	return streak.LastActiveDate != nil && streak.LastActiveDate.Before(today)
}
