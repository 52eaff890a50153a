// Package activity — dates.go содержит общие утилиты для работы с календарными датами.
// Все сравнения идут по civil.Date: без времени суток и без часового пояса.
package activity

import (
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/civil"

	"glowkids.ru/activity-engine/internal/common"
)

// DateIn возвращает календарную дату момента t в зоне loc.
// Это единственное место, где timestamp превращается в дату.
func DateIn(t time.Time, loc *time.Location) civil.Date {
	return civil.DateOf(t.In(loc))
}

// inRange проверяет start <= d <= end.
func inRange(d, start, end civil.Date) bool {
	return !d.Before(start) && !d.After(end)
}

// lookbackStart — первый день окна из n дней, заканчивающегося today.
func lookbackStart(today civil.Date, n int) civil.Date {
	return today.AddDays(-(n - 1))
}

// MonthBounds возвращает первый и последний день месяца.
func MonthBounds(year int, month time.Month) (civil.Date, civil.Date, error) {
	if month < time.January || month > time.December {
		return civil.Date{}, civil.Date{}, fmt.Errorf("%w: %d", common.ErrInvalidMonth, month)
	}
	first := civil.Date{Year: year, Month: month, Day: 1}
	// Первое число следующего месяца минус день
	next := first.In(time.UTC).AddDate(0, 1, 0)
	last := civil.DateOf(next).AddDays(-1)
	return first, last, nil
}

// DaysInclusive — число дней в окне [start, end].
func DaysInclusive(start, end civil.Date) int {
	return end.DaysSince(start) + 1
}

// ParseMonth разбирает строку вида "2026-03".
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", common.ErrInvalidMonth, s)
	}
	return t.Year(), t.Month(), nil
}

// FormatMonth возвращает "YYYY-MM".
func FormatMonth(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// distinctDates сворачивает записи в отсортированный по возрастанию набор дат.
// Десять записей в один день дают одну дату.
func distinctDates(events []CompletionEvent) []civil.Date {
	seen := make(map[civil.Date]struct{}, len(events))
	dates := make([]civil.Date, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.Date]; ok {
			continue
		}
		seen[e.Date] = struct{}{}
		dates = append(dates, e.Date)
	}
	slices.SortFunc(dates, compareDates)
	return dates
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
