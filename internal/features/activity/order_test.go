package activity

import (
	"math/rand"
	"reflect"
	"strconv"
	"testing"
	"time"
)

// randomEvents генерирует набор записей за последние 60 дней с повторами дат и сегментов.
func randomEvents(rng *rand.Rand, n int) []CompletionEvent {
	segments := []Segment{SegmentNone, SegmentMorning, SegmentAfternoon, SegmentEvening}
	events := make([]CompletionEvent, 0, n)
	for i := 0; i < n; i++ {
		e := ev(-rng.Intn(60))
		e.Segment = segments[rng.Intn(len(segments))]
		e.XPEarned = rng.Intn(30)
		e.RoutineID = "r" + strconv.Itoa(rng.Intn(4))
		events = append(events, e)
	}
	return events
}

func TestAggregates_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	eng := newTestEngine()
	events := randomEvents(rng, 80)

	heatmap, _ := eng.ComputeCalendarHeatmap(testSubject, events, 60)
	summaries, _ := eng.ComputeDailySummaries(testSubject, events, day(2026, 8, 21), day(2026, 10, 19))
	month, _ := eng.ComputeMonthlyStats(testSubject, events, 2026, time.October)
	segments, _ := eng.ComputeSegmentBreakdown(testSubject, events, 60)
	if len(heatmap) == 0 || len(summaries) == 0 || month == nil || len(segments.Segments) == 0 {
		t.Fatal("исходный набор должен давать непустые итоги")
	}

	for round := 0; round < 20; round++ {
		shuffled := append([]CompletionEvent(nil), events...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		gotHeatmap, err := eng.ComputeCalendarHeatmap(testSubject, shuffled, 60)
		if err != nil {
			t.Fatalf("ComputeCalendarHeatmap: %v", err)
		}
		if !reflect.DeepEqual(gotHeatmap, heatmap) {
			t.Fatalf("раунд %d: календарь зависит от порядка записей", round)
		}

		gotSummaries, err := eng.ComputeDailySummaries(testSubject, shuffled, day(2026, 8, 21), day(2026, 10, 19))
		if err != nil {
			t.Fatalf("ComputeDailySummaries: %v", err)
		}
		if !reflect.DeepEqual(gotSummaries, summaries) {
			t.Fatalf("раунд %d: дневные итоги зависят от порядка записей", round)
		}

		gotMonth, err := eng.ComputeMonthlyStats(testSubject, shuffled, 2026, time.October)
		if err != nil {
			t.Fatalf("ComputeMonthlyStats: %v", err)
		}
		if !reflect.DeepEqual(gotMonth, month) {
			t.Fatalf("раунд %d: месячная статистика зависит от порядка: %+v vs %+v", round, gotMonth, month)
		}

		gotSegments, err := eng.ComputeSegmentBreakdown(testSubject, shuffled, 60)
		if err != nil {
			t.Fatalf("ComputeSegmentBreakdown: %v", err)
		}
		if !reflect.DeepEqual(gotSegments, segments) {
			t.Fatalf("раунд %d: разбивка по сегментам зависит от порядка: %+v vs %+v", round, gotSegments, segments)
		}
	}
}
