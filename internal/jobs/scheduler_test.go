package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingNotifications struct {
	reminders, milestones, monthly int
	fail                           bool
}

func (c *countingNotifications) SendReminders(ctx context.Context) (int, error) {
	c.reminders++
	if c.fail {
		return 0, errors.New("boom")
	}
	return 1, nil
}

func (c *countingNotifications) SendMilestones(ctx context.Context) (int, error) {
	c.milestones++
	return 0, nil
}

func (c *countingNotifications) SendMonthlyReports(ctx context.Context) (int, error) {
	c.monthly++
	return 0, nil
}

func TestRegister_FeatureFlags(t *testing.T) {
	cases := []struct {
		name string
		opts Options
		want int
	}{
		{"всё выключено", Options{}, 0},
		{"только напоминания", Options{Reminders: true}, 1},
		{"всё включено", Options{Reminders: true, MonthlyReport: true}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScheduler(&countingNotifications{}, time.UTC, tc.opts)
			if err := s.Register(context.Background()); err != nil {
				t.Fatalf("Register: %v", err)
			}
			if got := len(s.Entries()); got != tc.want {
				t.Fatalf("задач: %d, хотим %d", got, tc.want)
			}
		})
	}
}

func TestMonthlySchedule_UsesLocation(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	s := NewScheduler(&countingNotifications{}, loc, Options{MonthlyReport: true})
	if err := s.Register(context.Background()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	entries := s.Entries()
	if len(entries) != 1 {
		t.Fatalf("ожидали одну задачу, получили %d", len(entries))
	}
	from := time.Date(2026, time.October, 19, 12, 0, 0, 0, loc)
	next := entries[0].Schedule.Next(from)
	want := time.Date(2026, time.November, 1, 9, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Fatalf("следующий запуск %v, хотим %v", next, want)
	}
}

func TestRunHourly_ContinuesAfterError(t *testing.T) {
	n := &countingNotifications{fail: true}
	s := NewScheduler(n, nil, Options{Reminders: true})
	s.runHourly(context.Background())
	if n.reminders != 1 || n.milestones != 1 {
		t.Fatalf("ошибка напоминаний не должна отменять поздравления: %+v", n)
	}
	s.runMonthly(context.Background())
	if n.monthly != 1 {
		t.Fatalf("итоги месяца не запущены")
	}
}
