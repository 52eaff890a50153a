// Package common — pluralize.go содержит форматтеры строк для уведомлений.
// Основная логика плюрализации реализована в helpers.go.
package common

import "fmt"

// FormatDays создаёт строку вида "5 дней".
func FormatDays(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeDays(n))
}

// FormatSteps создаёт строку вида "3 шага".
func FormatSteps(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizeSteps(n))
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s %03d", FormatNumber(n/1000), n%1000)
}
