// Package activity — streak.go считает текущую серию, рекорд и число активных дней.
package activity

import (
	"cloud.google.com/go/civil"
)

// ComputeStreak возвращает стрик профиля по его истории записей.
//
// Алгоритм:
//  1. Сворачиваем записи в набор различных дат (день с 1 и с 10 записями — один день)
//  2. Если последняя активность раньше, чем today - graceDays, текущая серия = 0
//  3. Иначе идём назад от последней даты, пока разница между соседними датами ровно 1 день
//  4. Рекорд — самая длинная цепочка подряд идущих дат, но не меньше текущей серии
//
// Даты позже сегодняшней в расчёт не берутся.
// Порядок входного списка не важен.
func (e *Engine) ComputeStreak(subjectID string, events []CompletionEvent) (StreakResult, error) {
	if err := checkSubject(subjectID); err != nil {
		return StreakResult{}, err
	}

	today := e.Today()
	dates := distinctDates(usable(subjectID, events, civil.Date{}, today))
	if len(dates) == 0 {
		return StreakResult{}, nil
	}

	last := dates[len(dates)-1]
	current := currentRun(dates, today, e.graceDays)
	longest := longestRun(dates)
	if current > longest {
		longest = current
	}

	return StreakResult{
		CurrentStreak:   current,
		LongestStreak:   longest,
		TotalActiveDays: len(dates),
		LastActiveDate:  &last,
	}, nil
}

// currentRun — длина серии, заканчивающейся последней датой (dates по возрастанию).
func currentRun(dates []civil.Date, today civil.Date, graceDays int) int {
	last := dates[len(dates)-1]
	if last.Before(today.AddDays(-graceDays)) {
		return 0
	}

	run := 1
	for i := len(dates) - 1; i > 0; i-- {
		if dates[i].DaysSince(dates[i-1]) != 1 {
			break
		}
		run++
	}
	return run
}

// longestRun — самая длинная цепочка подряд идущих дат (dates по возрастанию, без повторов).
func longestRun(dates []civil.Date) int {
	if len(dates) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i].DaysSince(dates[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
