// Package activity — segments.go считает разбивку шагов по времени суток.
package activity

import (
	"cloud.google.com/go/civil"
)

// ComputeSegmentBreakdown возвращает итоги по каждому встреченному сегменту за последние
// lookbackDays дней и самый активный сегмент (по сумме XP).
//
// Записи без сегмента в разбивку не попадают. Сегменты идут в порядке утро → день → вечер;
// при равном XP побеждает более ранний сегмент этого порядка.
func (e *Engine) ComputeSegmentBreakdown(subjectID string, events []CompletionEvent, lookbackDays int) (SegmentBreakdown, error) {
	if err := checkSubject(subjectID); err != nil {
		return SegmentBreakdown{}, err
	}
	start, end, err := e.Lookback(lookbackDays)
	if err != nil {
		return SegmentBreakdown{}, err
	}
	return segmentsBetween(subjectID, events, start, end), nil
}

// segmentsBetween считает разбивку за уже вычисленное окно [start, end].
func segmentsBetween(subjectID string, events []CompletionEvent, start, end civil.Date) SegmentBreakdown {
	type acc struct {
		stats SegmentStats
		days  map[civil.Date]struct{}
	}
	bySegment := make(map[Segment]*acc)
	for _, ev := range usable(subjectID, events, start, end) {
		if ev.Segment == SegmentNone {
			continue
		}
		a, ok := bySegment[ev.Segment]
		if !ok {
			a = &acc{stats: SegmentStats{Segment: ev.Segment}, days: make(map[civil.Date]struct{})}
			bySegment[ev.Segment] = a
		}
		a.stats.TotalSteps++
		a.stats.TotalXP += ev.XPEarned
		a.days[ev.Date] = struct{}{}
	}

	result := SegmentBreakdown{Segments: make([]SegmentStats, 0, len(bySegment))}
	bestXP := -1
	for _, seg := range segmentOrder {
		a, ok := bySegment[seg]
		if !ok {
			continue
		}
		a.stats.DaysCompleted = len(a.days)
		result.Segments = append(result.Segments, a.stats)
		// Строго больше: при равенстве остаётся более ранний сегмент
		if a.stats.TotalXP > bestXP {
			bestXP = a.stats.TotalXP
			result.MostActive = seg
		}
	}
	return result
}
