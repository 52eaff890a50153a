// Package activity — window.go агрегирует записи по дням и месяцам
// и считает процент дней с активностью.
package activity

import (
	"math"
	"slices"
	"time"

	"cloud.google.com/go/civil"
)

// dayBucket копит итоги одного дня.
type dayBucket struct {
	steps    int
	xp       int
	routines map[string]struct{}
}

// ComputeDailySummaries возвращает итоги по каждому дню окна [start, end], в котором была
// хотя бы одна запись. Дни без записей не возвращаются. Результат отсортирован по дате.
func (e *Engine) ComputeDailySummaries(subjectID string, events []CompletionEvent, start, end civil.Date) ([]DaySummary, error) {
	if err := checkSubject(subjectID); err != nil {
		return nil, err
	}
	if err := checkRange(start, end); err != nil {
		return nil, err
	}

	buckets := make(map[civil.Date]*dayBucket)
	for _, ev := range usable(subjectID, events, start, end) {
		b, ok := buckets[ev.Date]
		if !ok {
			b = &dayBucket{routines: make(map[string]struct{})}
			buckets[ev.Date] = b
		}
		b.steps++
		b.xp += ev.XPEarned
		// Записи без рутины считаются шагами, но не рутинами
		if ev.RoutineID != "" {
			b.routines[ev.RoutineID] = struct{}{}
		}
	}

	summaries := make([]DaySummary, 0, len(buckets))
	for date, b := range buckets {
		summaries = append(summaries, DaySummary{
			Date:                      date,
			DistinctRoutinesCompleted: len(b.routines),
			TotalStepsCompleted:       b.steps,
			TotalXP:                   b.xp,
		})
	}
	slices.SortFunc(summaries, func(a, b DaySummary) int { return compareDates(a.Date, b.Date) })
	return summaries, nil
}

// ComputeMonthlyStats возвращает итоги календарного месяца.
// Если за месяц нет ни одной записи — возвращает nil (а не структуру с 0/0).
func (e *Engine) ComputeMonthlyStats(subjectID string, events []CompletionEvent, year int, month time.Month) (*MonthlyStats, error) {
	if err := checkSubject(subjectID); err != nil {
		return nil, err
	}
	first, last, err := MonthBounds(year, month)
	if err != nil {
		return nil, err
	}

	inMonth := usable(subjectID, events, first, last)
	if len(inMonth) == 0 {
		return nil, nil
	}

	routines := make(map[string]struct{})
	days := make(map[civil.Date]struct{})
	totalXP := 0
	for _, ev := range inMonth {
		days[ev.Date] = struct{}{}
		totalXP += ev.XPEarned
		if ev.RoutineID != "" {
			routines[ev.RoutineID] = struct{}{}
		}
	}

	steps := len(inMonth)
	return &MonthlyStats{
		Month:               FormatMonth(year, month),
		ActiveDays:          len(days),
		UniqueRoutines:      len(routines),
		TotalStepsCompleted: steps,
		TotalXP:             totalXP,
		AvgXPPerStep:        roundTo1(float64(totalXP) / float64(steps)),
	}, nil
}

// ComputeCompletionRate — процент дней окна [start, end], в которые была хотя бы одна запись:
// round(activeDays / totalDays * 100). Это приближение: полноту рутины оно не проверяет.
func (e *Engine) ComputeCompletionRate(subjectID string, events []CompletionEvent, start, end civil.Date) (int, error) {
	if err := checkSubject(subjectID); err != nil {
		return 0, err
	}
	if err := checkRange(start, end); err != nil {
		return 0, err
	}

	active := len(distinctDates(usable(subjectID, events, start, end)))
	total := DaysInclusive(start, end)
	return int(math.Round(float64(active) / float64(total) * 100)), nil
}

// MonthToDate возвращает окно от первого числа текущего месяца до сегодня.
func (e *Engine) MonthToDate() (civil.Date, civil.Date) {
	today := e.Today()
	return civil.Date{Year: today.Year, Month: today.Month, Day: 1}, today
}

// Lookback возвращает окно из n дней, заканчивающееся сегодня.
func (e *Engine) Lookback(n int) (civil.Date, civil.Date, error) {
	if err := checkLookback(n); err != nil {
		return civil.Date{}, civil.Date{}, err
	}
	today := e.Today()
	return lookbackStart(today, n), today, nil
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
