// Package reminders — milestones.go содержит таблицу отметок серии,
// за которые родитель получает поздравление.
package reminders

// Milestones — длины серии (в днях), которые отмечаются поздравлением.
//
// Таблица:
//
//	3 дня   — первая маленькая победа
//	7 дней  — неделя
//	14 дней — две недели
//	30 дней — месяц
//	60, 100 — дальше реже
var Milestones = []int{3, 7, 14, 30, 60, 100}

// IsMilestone проверяет, является ли длина серии отметкой.
func IsMilestone(streak int) bool {
	for _, m := range Milestones {
		if m == streak {
			return true
		}
	}
	return false
}

// NextMilestone возвращает ближайшую отметку больше streak.
// После последней отметки — каждые 100 дней.
func NextMilestone(streak int) int {
	for _, m := range Milestones {
		if m > streak {
			return m
		}
	}
	return (streak/100 + 1) * 100
}
