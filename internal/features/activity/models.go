// Package activity — движок стриков и истории активности.
// models.go описывает входные записи о выполненных шагах и производные структуры,
// которые движок возвращает слою отображения.
package activity

import (
	"time"

	"cloud.google.com/go/civil"
)

// Segment — время суток, к которому привязан шаг рутины.
type Segment string

const (
	SegmentNone      Segment = "" // Шаг без привязки ко времени суток
	SegmentMorning   Segment = "morning"
	SegmentAfternoon Segment = "afternoon"
	SegmentEvening   Segment = "evening"
)

// segmentOrder — канонический порядок сегментов (утро → день → вечер).
// Он же решает ничьи при выборе самого активного времени суток.
var segmentOrder = []Segment{SegmentMorning, SegmentAfternoon, SegmentEvening}

// ParseSegment приводит строку из хранилища к сегменту.
// Неизвестные значения считаются «без сегмента».
func ParseSegment(s string) Segment {
	for _, seg := range segmentOrder {
		if string(seg) == s {
			return seg
		}
	}
	return SegmentNone
}

// Known сообщает, входит ли сегмент в канонический набор или пуст.
func (s Segment) Known() bool {
	return s == SegmentNone || ParseSegment(string(s)) != SegmentNone
}

// CompletionEvent — одна запись «шаг рутины выполнен в день D».
// Записи только читаются, движок их никогда не изменяет.
type CompletionEvent struct {
	SubjectID string     // Профиль ребёнка
	Date      civil.Date // Календарная дата без времени и часового пояса
	Segment   Segment    // Время суток (может отсутствовать)
	XPEarned  int        // Награда, 0 если неизвестна
	RoutineID string     // Рутина (может отсутствовать), только для подсчёта уникальных рутин
}

// RawEvent — строка из хранилища до разбора.
// Любое поле может оказаться пустым или битым.
type RawEvent struct {
	SubjectID   string
	Date        *string    // Колонка completed_on в формате YYYY-MM-DD
	CompletedAt *time.Time // Запасной источник даты, если completed_on пуст
	Segment     *string
	XPEarned    *int
	RoutineID   *string
}

// StreakResult — текущая серия, рекорд и последняя активность.
type StreakResult struct {
	CurrentStreak   int         `json:"currentStreak"`
	LongestStreak   int         `json:"longestStreak"`
	TotalActiveDays int         `json:"totalActiveDays"`
	LastActiveDate  *civil.Date `json:"lastActiveDate"`
}

// DaySummary — итоги одного дня, в котором была хотя бы одна запись.
type DaySummary struct {
	Date                      civil.Date `json:"date"`
	DistinctRoutinesCompleted int        `json:"distinctRoutinesCompleted"`
	TotalStepsCompleted       int        `json:"totalStepsCompleted"`
	TotalXP                   int        `json:"totalXp"`
}

// MonthlyStats — итоги календарного месяца.
type MonthlyStats struct {
	Month               string  `json:"month"` // YYYY-MM
	ActiveDays          int     `json:"activeDays"`
	UniqueRoutines      int     `json:"uniqueRoutines"`
	TotalStepsCompleted int     `json:"totalStepsCompleted"`
	TotalXP             int     `json:"totalXp"`
	AvgXPPerStep        float64 `json:"avgXpPerStep"` // Округлено до 1 знака
}

// ActivityLevel — интенсивность дня на тепловой карте.
type ActivityLevel string

const (
	LevelNone   ActivityLevel = "none"
	LevelLow    ActivityLevel = "low"
	LevelMedium ActivityLevel = "medium"
	LevelHigh   ActivityLevel = "high"
)

// CalendarDay — клетка тепловой карты.
type CalendarDay struct {
	Date          civil.Date    `json:"date"`
	ActivityCount int           `json:"activityCount"`
	XPEarned      int           `json:"xpEarned"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
}

// SegmentStats — итоги по одному времени суток.
type SegmentStats struct {
	Segment       Segment `json:"segment"`
	DaysCompleted int     `json:"daysCompleted"` // Число разных дат
	TotalSteps    int     `json:"totalSteps"`
	TotalXP       int     `json:"totalXp"`
}

// SegmentBreakdown — разбивка по времени суток и самый активный сегмент.
// MostActive пуст, если ни одна запись не имела сегмента.
type SegmentBreakdown struct {
	Segments   []SegmentStats `json:"segments"`
	MostActive Segment        `json:"mostActive,omitempty"`
}
