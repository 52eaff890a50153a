package activity

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"glowkids.ru/activity-engine/internal/common"
)

const testSubject = "7f1c9d3e-0000-4000-8000-000000000001"

var testToday = civil.Date{Year: 2026, Month: time.October, Day: 19}

func newTestEngine(opts ...Option) *Engine {
	now := func() time.Time { return time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC) }
	return NewEngine(append([]Option{WithClock(now)}, opts...)...)
}

// ev создаёт запись, отстоящую от testToday на offset дней.
func ev(offset int) CompletionEvent {
	return CompletionEvent{SubjectID: testSubject, Date: testToday.AddDays(offset)}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestParseEvent(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	late := time.Date(2026, time.October, 18, 22, 30, 0, 0, time.UTC) // 01:30 19-го по Москве

	tests := []struct {
		name    string
		raw     RawEvent
		want    CompletionEvent
		wantErr error
	}{
		{
			name: "date column",
			raw:  RawEvent{SubjectID: testSubject, Date: strPtr("2026-10-01"), Segment: strPtr("Morning"), XPEarned: intPtr(5), RoutineID: strPtr("r1")},
			want: CompletionEvent{SubjectID: testSubject, Date: civil.Date{Year: 2026, Month: 10, Day: 1}, Segment: SegmentMorning, XPEarned: 5, RoutineID: "r1"},
		},
		{
			name: "timestamp fallback uses location",
			raw:  RawEvent{SubjectID: testSubject, CompletedAt: &late},
			want: CompletionEvent{SubjectID: testSubject, Date: civil.Date{Year: 2026, Month: 10, Day: 19}},
		},
		{
			name: "unknown segment becomes unsegmented",
			raw:  RawEvent{SubjectID: testSubject, Date: strPtr("2026-10-01"), Segment: strPtr("night")},
			want: CompletionEvent{SubjectID: testSubject, Date: civil.Date{Year: 2026, Month: 10, Day: 1}},
		},
		{
			name:    "bad date",
			raw:     RawEvent{SubjectID: testSubject, Date: strPtr("2026-13-45")},
			wantErr: common.ErrMalformedDate,
		},
		{
			name:    "no date at all",
			raw:     RawEvent{SubjectID: testSubject},
			wantErr: common.ErrMalformedDate,
		},
		{
			name:    "negative xp",
			raw:     RawEvent{SubjectID: testSubject, Date: strPtr("2026-10-01"), XPEarned: intPtr(-3)},
			wantErr: common.ErrNegativeXP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEvent(tt.raw, moscow)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ожидали %v, получили %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEvent: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseEvent = %+v, ожидали %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeEvents_DropsBadRows(t *testing.T) {
	raws := []RawEvent{
		{SubjectID: testSubject, Date: strPtr("2026-10-18")},
		{SubjectID: testSubject, Date: strPtr("not-a-date")},
		{SubjectID: testSubject, Date: strPtr("2026-10-19"), XPEarned: intPtr(-1)},
		{SubjectID: testSubject, Date: strPtr("2026-10-19")},
	}
	got := NormalizeEvents(raws, time.UTC)
	if len(got) != 2 {
		t.Fatalf("ожидали 2 годные записи, получили %d", len(got))
	}
}

func TestEngine_TodayUsesLocation(t *testing.T) {
	// 22:30 UTC 18-го — это уже 19-е в Москве
	now := func() time.Time { return time.Date(2026, time.October, 18, 22, 30, 0, 0, time.UTC) }
	msk := time.FixedZone("MSK", 3*60*60)

	if got := NewEngine(WithClock(now)).Today(); got != (civil.Date{Year: 2026, Month: 10, Day: 18}) {
		t.Fatalf("UTC today = %s", got)
	}
	if got := NewEngine(WithClock(now), WithLocation(msk)).Today(); got != (civil.Date{Year: 2026, Month: 10, Day: 19}) {
		t.Fatalf("MSK today = %s", got)
	}
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		last  int
	}{
		{2026, time.January, 31},
		{2026, time.February, 28},
		{2028, time.February, 29},
		{2026, time.April, 30},
		{2026, time.December, 31},
	}
	for _, tt := range tests {
		first, last, err := MonthBounds(tt.year, tt.month)
		if err != nil {
			t.Fatalf("MonthBounds(%d, %d): %v", tt.year, tt.month, err)
		}
		if first.Day != 1 || last.Day != tt.last || last.Month != tt.month {
			t.Fatalf("MonthBounds(%d, %d) = %s..%s", tt.year, tt.month, first, last)
		}
	}
	if _, _, err := MonthBounds(2026, 13); !errors.Is(err, common.ErrInvalidMonth) {
		t.Fatalf("ожидали ErrInvalidMonth, получили %v", err)
	}
}

func TestParseMonth(t *testing.T) {
	y, m, err := ParseMonth("2026-03")
	if err != nil || y != 2026 || m != time.March {
		t.Fatalf("ParseMonth = %d, %d, %v", y, m, err)
	}
	if _, _, err := ParseMonth("2026-3x"); !errors.Is(err, common.ErrInvalidMonth) {
		t.Fatalf("ожидали ErrInvalidMonth, получили %v", err)
	}
	if got := FormatMonth(2026, time.March); got != "2026-03" {
		t.Fatalf("FormatMonth = %q", got)
	}
}

func TestEngine_RejectsEmptySubject(t *testing.T) {
	e := newTestEngine()
	if _, err := e.ComputeStreak(" ", nil); !errors.Is(err, common.ErrEmptySubject) {
		t.Fatalf("ComputeStreak: ожидали ErrEmptySubject, получили %v", err)
	}
	if _, err := e.ComputeCalendarHeatmap("", nil, 30); !errors.Is(err, common.ErrEmptySubject) {
		t.Fatalf("ComputeCalendarHeatmap: ожидали ErrEmptySubject, получили %v", err)
	}
	if _, err := e.ComputeSegmentBreakdown("", nil, 30); !errors.Is(err, common.ErrEmptySubject) {
		t.Fatalf("ComputeSegmentBreakdown: ожидали ErrEmptySubject, получили %v", err)
	}
	if _, err := e.ComputeMonthlyStats("", nil, 2026, time.October); !errors.Is(err, common.ErrEmptySubject) {
		t.Fatalf("ComputeMonthlyStats: ожидали ErrEmptySubject, получили %v", err)
	}
}
