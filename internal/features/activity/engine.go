// Package activity — engine.go собирает движок: часовой пояс, часы, период
// «прощения» и пороги тепловой карты, а также фильтрацию битых записей.
//
// Все Compute*-методы — чистые функции от входного списка: ничего не кэшируют,
// не изменяют записи и могут вызываться параллельно для разных профилей.
package activity

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	log "github.com/sirupsen/logrus"

	"glowkids.ru/activity-engine/internal/common"
)

// DefaultGraceDays — сколько дней без активности не ломает текущую серию.
// 1 = вчерашняя активность сохраняет серию, пока ребёнок не выполнил рутину сегодня.
const DefaultGraceDays = 1

// Пороги тепловой карты по числу записей за день.
// Подобраны под текущую аудиторию, для другой аудитории их стоит пересмотреть.
const (
	DefaultMediumThreshold = 5
	DefaultHighThreshold   = 10
)

// Thresholds — границы уровней активности: [1, Medium) = low, [Medium, High) = medium, >= High = high.
type Thresholds struct {
	Medium int
	High   int
}

// Engine считает стрики, окна, тепловую карту и разбивку по времени суток.
type Engine struct {
	loc        *time.Location
	now        func() time.Time
	graceDays  int
	thresholds Thresholds
}

// Option настраивает Engine.
type Option func(*Engine)

// WithLocation задаёт часовой пояс, в котором считается «сегодня».
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithClock подменяет часы (используется в тестах и для пересчёта «на дату»).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithGraceDays задаёт период «прощения» для текущей серии.
func WithGraceDays(days int) Option {
	return func(e *Engine) {
		if days >= 0 {
			e.graceDays = days
		}
	}
}

// WithThresholds задаёт пороги тепловой карты.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) {
		if t.Medium > 1 && t.High > t.Medium {
			e.thresholds = t
		}
	}
}

// NewEngine создаёт движок. По умолчанию: UTC, time.Now, 1 день прощения, пороги 5/10.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		loc:        time.UTC,
		now:        time.Now,
		graceDays:  DefaultGraceDays,
		thresholds: Thresholds{Medium: DefaultMediumThreshold, High: DefaultHighThreshold},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today возвращает сегодняшнюю дату в часовом поясе движка.
func (e *Engine) Today() civil.Date {
	return DateIn(e.now(), e.loc)
}

// Now возвращает текущий момент в часовом поясе движка.
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

// Location возвращает часовой пояс движка.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// ParseEvent разбирает сырую строку хранилища в CompletionEvent.
// Дата берётся из completed_on, а если её нет — из completed_at в зоне loc.
func ParseEvent(raw RawEvent, loc *time.Location) (CompletionEvent, error) {
	ev := CompletionEvent{SubjectID: raw.SubjectID}

	switch {
	case raw.Date != nil && strings.TrimSpace(*raw.Date) != "":
		d, err := civil.ParseDate(strings.TrimSpace(*raw.Date))
		if err != nil {
			return CompletionEvent{}, fmt.Errorf("%w: %q", common.ErrMalformedDate, *raw.Date)
		}
		ev.Date = d
	case raw.CompletedAt != nil && !raw.CompletedAt.IsZero():
		ev.Date = DateIn(*raw.CompletedAt, loc)
	default:
		return CompletionEvent{}, common.ErrMalformedDate
	}

	if raw.XPEarned != nil {
		if *raw.XPEarned < 0 {
			return CompletionEvent{}, fmt.Errorf("%w: %d", common.ErrNegativeXP, *raw.XPEarned)
		}
		ev.XPEarned = *raw.XPEarned
	}
	if raw.Segment != nil {
		ev.Segment = ParseSegment(strings.ToLower(strings.TrimSpace(*raw.Segment)))
	}
	if raw.RoutineID != nil {
		ev.RoutineID = *raw.RoutineID
	}
	return ev, nil
}

// NormalizeEvents разбирает сырые строки, отбрасывая битые.
// Одна плохая запись не должна обнулить стрик ребёнка.
func NormalizeEvents(raws []RawEvent, loc *time.Location) []CompletionEvent {
	events := make([]CompletionEvent, 0, len(raws))
	for _, raw := range raws {
		ev, err := ParseEvent(raw, loc)
		if err != nil {
			log.WithError(err).WithField("subject_id", raw.SubjectID).Debug("Пропускаем битую запись")
			continue
		}
		events = append(events, ev)
	}
	return events
}

// validate проверяет запись перед расчётом.
func validate(subjectID string, e CompletionEvent) error {
	if !e.Date.IsValid() {
		return common.ErrMalformedDate
	}
	if e.XPEarned < 0 {
		return common.ErrNegativeXP
	}
	if e.SubjectID != "" && e.SubjectID != subjectID {
		return common.ErrForeignSubject
	}
	return nil
}

// usable отбирает годные записи профиля, попадающие в [start, end].
// Нулевые границы означают «без ограничения».
func usable(subjectID string, events []CompletionEvent, start, end civil.Date) []CompletionEvent {
	out := make([]CompletionEvent, 0, len(events))
	for _, e := range events {
		if err := validate(subjectID, e); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"subject_id": subjectID,
				"date":       e.Date.String(),
			}).Debug("Запись отброшена")
			continue
		}
		if !start.IsZero() && e.Date.Before(start) {
			continue
		}
		if !end.IsZero() && e.Date.After(end) {
			continue
		}
		if !e.Segment.Known() {
			e.Segment = SegmentNone
		}
		out = append(out, e)
	}
	return out
}

func checkSubject(subjectID string) error {
	if strings.TrimSpace(subjectID) == "" {
		return common.ErrEmptySubject
	}
	return nil
}

func checkLookback(days int) error {
	if days <= 0 {
		return fmt.Errorf("%w: %d", common.ErrInvalidLookback, days)
	}
	return nil
}

func checkRange(start, end civil.Date) error {
	if !start.IsValid() || !end.IsValid() || start.After(end) {
		return fmt.Errorf("%w: %s..%s", common.ErrInvalidRange, start, end)
	}
	return nil
}
