// Package activity — calendar.go раскладывает дни по уровням активности для тепловой карты.
package activity

import (
	"slices"

	"cloud.google.com/go/civil"
)

// Classify возвращает уровень активности по числу записей за день.
//
//	0          → none
//	1..Medium-1 → low
//	Medium..High-1 → medium
//	>= High    → high
func (t Thresholds) Classify(count int) ActivityLevel {
	switch {
	case count >= t.High:
		return LevelHigh
	case count >= t.Medium:
		return LevelMedium
	case count >= 1:
		return LevelLow
	default:
		return LevelNone
	}
}

// ComputeCalendarHeatmap возвращает по одной клетке на каждый день последних lookbackDays дней
// (включая сегодня), в который была хотя бы одна запись. Пустые дни не возвращаются —
// для плотной сетки используйте FillCalendar.
func (e *Engine) ComputeCalendarHeatmap(subjectID string, events []CompletionEvent, lookbackDays int) ([]CalendarDay, error) {
	if err := checkSubject(subjectID); err != nil {
		return nil, err
	}
	start, end, err := e.Lookback(lookbackDays)
	if err != nil {
		return nil, err
	}
	return e.calendarBetween(subjectID, events, start, end), nil
}

// calendarBetween строит разреженную карту за уже вычисленное окно [start, end].
func (e *Engine) calendarBetween(subjectID string, events []CompletionEvent, start, end civil.Date) []CalendarDay {
	byDate := make(map[civil.Date]*CalendarDay)
	for _, ev := range usable(subjectID, events, start, end) {
		day, ok := byDate[ev.Date]
		if !ok {
			day = &CalendarDay{Date: ev.Date}
			byDate[ev.Date] = day
		}
		day.ActivityCount++
		day.XPEarned += ev.XPEarned
	}

	days := make([]CalendarDay, 0, len(byDate))
	for _, day := range byDate {
		day.ActivityLevel = e.thresholds.Classify(day.ActivityCount)
		days = append(days, *day)
	}
	slices.SortFunc(days, func(a, b CalendarDay) int { return compareDates(a.Date, b.Date) })
	return days
}

// FillCalendar превращает разреженную карту в плотную сетку [start, end]:
// дни без записей получают уровень none.
func FillCalendar(days []CalendarDay, start, end civil.Date) []CalendarDay {
	if start.After(end) {
		return nil
	}
	known := make(map[civil.Date]CalendarDay, len(days))
	for _, d := range days {
		known[d.Date] = d
	}

	dense := make([]CalendarDay, 0, DaysInclusive(start, end))
	for d := start; !d.After(end); d = d.AddDays(1) {
		if day, ok := known[d]; ok {
			dense = append(dense, day)
			continue
		}
		dense = append(dense, CalendarDay{Date: d, ActivityLevel: LevelNone})
	}
	return dense
}
