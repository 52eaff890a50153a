// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежечасные напоминания о серии,
// поздравления с отметками и итоги месяца 1-го числа.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Расписания задач (в часовом поясе приложения).
const (
	HourlySpec  = "0 * * * *"
	MonthlySpec = "0 9 1 * *"
)

// Notifications — рассылки, которые запускает планировщик.
type Notifications interface {
	SendReminders(ctx context.Context) (int, error)
	SendMilestones(ctx context.Context) (int, error)
	SendMonthlyReports(ctx context.Context) (int, error)
}

// Options включает отдельные задачи.
type Options struct {
	Reminders     bool
	MonthlyReport bool
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	notifier Notifications
	opts     Options
	loc      *time.Location
}

// NewScheduler создаёт планировщик в заданном часовом поясе.
func NewScheduler(notifier Notifications, loc *time.Location, opts Options) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		notifier: notifier,
		opts:     opts,
		loc:      loc,
	}
}

// Register добавляет задачи в расписание, не запуская их.
func (s *Scheduler) Register(ctx context.Context) error {
	if s.opts.Reminders {
		if _, err := s.cron.AddFunc(HourlySpec, func() { s.runHourly(ctx) }); err != nil {
			return err
		}
	}
	if s.opts.MonthlyReport {
		if _, err := s.cron.AddFunc(MonthlySpec, func() { s.runMonthly(ctx) }); err != nil {
			return err
		}
	}
	return nil
}

// Start регистрирует и запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.Register(ctx); err != nil {
		return err
	}
	s.cron.Start()
	log.WithFields(log.Fields{
		"jobs":     len(s.cron.Entries()),
		"timezone": s.loc.String(),
	}).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и ждёт завершения текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// Entries возвращает зарегистрированные задачи.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runHourly(ctx context.Context) {
	log.Debug("[CRON] Проверка напоминаний")
	if _, err := s.notifier.SendReminders(ctx); err != nil {
		log.WithError(err).Error("[CRON] Ошибка напоминаний")
	}
	if _, err := s.notifier.SendMilestones(ctx); err != nil {
		log.WithError(err).Error("[CRON] Ошибка поздравлений")
	}
}

func (s *Scheduler) runMonthly(ctx context.Context) {
	log.Info("[CRON] Итоги месяца")
	if _, err := s.notifier.SendMonthlyReports(ctx); err != nil {
		log.WithError(err).Error("[CRON] Ошибка итогов месяца")
	}
}
