// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел, работа с часовыми поясами.
package common

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"
)

// pluralForm выбирает одну из трёх форм слова по правилам русского языка.
//
// Правила:
//   - n%10==1 И n%100!=11 → one (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → few (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → many (0, 5-20, 25-30, 100, ...)
func pluralForm(n int, one, few, many string) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizeDays возвращает правильную форму слова «день» для числа n.
//
// Примеры:
//
//	PluralizeDays(1)  → "день"
//	PluralizeDays(3)  → "дня"
//	PluralizeDays(11) → "дней"
//	PluralizeDays(21) → "день"
func PluralizeDays(n int) string {
	return pluralForm(n, "день", "дня", "дней")
}

// PluralizeSteps возвращает правильную форму слова «шаг».
func PluralizeSteps(n int) string {
	return pluralForm(n, "шаг", "шага", "шагов")
}

// LoadLocation загружает часовой пояс по имени.
// Если зона не найдена (нет tzdata в контейнере) — используем UTC и пишем предупреждение.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.WithError(err).WithField("timezone", name).Warn("Не удалось загрузить часовой пояс, используем UTC")
		return time.UTC
	}
	return loc
}

// MonthNameRu возвращает название месяца в именительном падеже.
func MonthNameRu(m time.Month) string {
	names := [...]string{
		"январь", "февраль", "март", "апрель", "май", "июнь",
		"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
	}
	if m < time.January || m > time.December {
		return ""
	}
	return names[m-1]
}
