package activity

import "testing"

func TestThresholdsClassify(t *testing.T) {
	th := Thresholds{Medium: DefaultMediumThreshold, High: DefaultHighThreshold}
	cases := map[int]ActivityLevel{
		0:  LevelNone,
		1:  LevelLow,
		4:  LevelLow,
		5:  LevelMedium,
		9:  LevelMedium,
		10: LevelHigh,
		12: LevelHigh,
	}
	for count, want := range cases {
		if got := th.Classify(count); got != want {
			t.Errorf("Classify(%d) = %s, ожидали %s", count, got, want)
		}
	}
}

func TestComputeCalendarHeatmap_SingleBusyDay(t *testing.T) {
	var events []CompletionEvent
	for i := 0; i < 12; i++ {
		e := ev(-3)
		e.XPEarned = 2
		events = append(events, e)
	}

	got, err := newTestEngine().ComputeCalendarHeatmap(testSubject, events, 7)
	if err != nil {
		t.Fatalf("ComputeCalendarHeatmap: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ожидали один день, получили %d", len(got))
	}
	if got[0].Date != testToday.AddDays(-3) || got[0].ActivityCount != 12 || got[0].XPEarned != 24 || got[0].ActivityLevel != LevelHigh {
		t.Fatalf("неожиданная клетка: %+v", got[0])
	}
}

func TestComputeCalendarHeatmap_WindowAndOrder(t *testing.T) {
	events := []CompletionEvent{
		ev(0), ev(0), ev(0), ev(0), ev(0), // 5 → medium
		ev(-6), // первый день окна из 7
		ev(-7), // вне окна
		ev(1),  // завтра, вне окна
		ev(-2), ev(-2),
	}

	got, err := newTestEngine().ComputeCalendarHeatmap(testSubject, events, 7)
	if err != nil {
		t.Fatalf("ComputeCalendarHeatmap: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ожидали 3 дня, получили %+v", got)
	}
	wantDates := []int{-6, -2, 0}
	wantLevels := []ActivityLevel{LevelLow, LevelLow, LevelMedium}
	for i := range got {
		if got[i].Date != testToday.AddDays(wantDates[i]) || got[i].ActivityLevel != wantLevels[i] {
			t.Errorf("клетка %d: %+v", i, got[i])
		}
	}
}

func TestComputeCalendarHeatmap_CustomThresholds(t *testing.T) {
	e := newTestEngine(WithThresholds(Thresholds{Medium: 2, High: 3}))
	got, _ := e.ComputeCalendarHeatmap(testSubject, []CompletionEvent{ev(0), ev(0), ev(0)}, 1)
	if len(got) != 1 || got[0].ActivityLevel != LevelHigh {
		t.Fatalf("ожидали high, получили %+v", got)
	}
}

func TestFillCalendar(t *testing.T) {
	start, end := testToday.AddDays(-4), testToday
	sparse := []CalendarDay{{Date: testToday.AddDays(-2), ActivityCount: 3, ActivityLevel: LevelLow}}

	dense := FillCalendar(sparse, start, end)
	if len(dense) != 5 {
		t.Fatalf("ожидали 5 дней, получили %d", len(dense))
	}
	for i, d := range dense {
		if d.Date != start.AddDays(i) {
			t.Fatalf("день %d: дата %s", i, d.Date)
		}
		wantLevel := LevelNone
		if i == 2 {
			wantLevel = LevelLow
		}
		if d.ActivityLevel != wantLevel {
			t.Errorf("день %d: уровень %s, ожидали %s", i, d.ActivityLevel, wantLevel)
		}
	}

	if FillCalendar(sparse, end, start) != nil {
		t.Fatal("перевёрнутое окно должно давать nil")
	}
}
