package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"glowkids.ru/activity-engine/internal/common"
	"glowkids.ru/activity-engine/internal/features/activity"
	"glowkids.ru/activity-engine/internal/transport/rest/middleware"
)

const knownID = "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f"

var today = civil.Date{Year: 2026, Month: time.October, Day: 19}

type fakeActivity struct {
	lastFrom, lastTo civil.Date
	lastDays         int
	lastDense        bool
	monthToDate      bool
	panicOnStreak    bool
}

func (f *fakeActivity) Streak(ctx context.Context, id string) (activity.StreakResult, error) {
	if f.panicOnStreak {
		panic("boom")
	}
	last := today
	return activity.StreakResult{CurrentStreak: 3, LongestStreak: 7, TotalActiveDays: 12, LastActiveDate: &last}, nil
}

func (f *fakeActivity) DailySummaries(ctx context.Context, id string, from, to civil.Date) ([]activity.DaySummary, error) {
	f.lastFrom, f.lastTo = from, to
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s..%s", common.ErrInvalidRange, from, to)
	}
	return []activity.DaySummary{{Date: to, DistinctRoutinesCompleted: 1, TotalStepsCompleted: 4, TotalXP: 40}}, nil
}

func (f *fakeActivity) MonthlyStats(ctx context.Context, id string, year int, month time.Month) (*activity.MonthlyStats, error) {
	if month == time.September {
		return nil, nil
	}
	return &activity.MonthlyStats{Month: activity.FormatMonth(year, month), ActiveDays: 10, AvgXPPerStep: 13.3}, nil
}

func (f *fakeActivity) CompletionRateMonthToDate(ctx context.Context, id string) (int, error) {
	f.monthToDate = true
	return 79, nil
}

func (f *fakeActivity) CompletionRateLookback(ctx context.Context, id string, days int) (int, error) {
	f.lastDays = days
	return 50, nil
}

func (f *fakeActivity) Calendar(ctx context.Context, id string, days int, dense bool) ([]activity.CalendarDay, error) {
	f.lastDays, f.lastDense = days, dense
	return []activity.CalendarDay{{Date: today, ActivityCount: 12, XPEarned: 120, ActivityLevel: activity.LevelHigh}}, nil
}

func (f *fakeActivity) Segments(ctx context.Context, id string, days int) (activity.SegmentBreakdown, error) {
	f.lastDays = days
	if days > 366 {
		return activity.SegmentBreakdown{}, common.ErrInvalidLookback
	}
	return activity.SegmentBreakdown{MostActive: activity.SegmentMorning}, nil
}

type fakeSubjects struct{}

func (fakeSubjects) Exists(ctx context.Context, id string) (bool, error) {
	return id == knownID, nil
}

func newTestRouter(act *fakeActivity, auth *middleware.APIKeyAuth, limiter *middleware.RateLimiter) http.Handler {
	return NewRouter(&Container{
		Activity:    act,
		Subjects:    fakeSubjects{},
		Today:       func() civil.Date { return today },
		DefaultDays: 30,
		Auth:        auth,
		Limiter:     limiter,
	})
}

func do(t *testing.T, h http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func subjectPath(suffix string) string {
	return "/v1/subjects/" + knownID + suffix
}

func TestRouter_StatusCodes(t *testing.T) {
	h := newTestRouter(&fakeActivity{}, nil, nil)

	cases := []struct {
		name string
		path string
		want int
	}{
		{"health", "/health", http.StatusOK},
		{"стрик", subjectPath("/streak"), http.StatusOK},
		{"некорректный UUID", "/v1/subjects/not-a-uuid/streak", http.StatusBadRequest},
		{"неизвестный профиль", "/v1/subjects/00000000-0000-4000-8000-000000000000/streak", http.StatusNotFound},
		{"некорректный месяц", subjectPath("/months/2026-13"), http.StatusBadRequest},
		{"некорректная дата", subjectPath("/days?from=2026-02-30"), http.StatusBadRequest},
		{"from позже to", subjectPath("/days?from=2026-10-19&to=2026-10-01"), http.StatusBadRequest},
		{"days = 0", subjectPath("/calendar?days=0"), http.StatusBadRequest},
		{"days не число", subjectPath("/segments?days=abc"), http.StatusBadRequest},
		{"слишком длинное окно", subjectPath("/segments?days=1000"), http.StatusBadRequest},
		{"неизвестный маршрут", subjectPath("/unknown"), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.path, nil)
			if rec.Code != tc.want {
				t.Fatalf("GET %s = %d, хотим %d (%s)", tc.path, rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestStreakBody(t *testing.T) {
	rec := do(t, newTestRouter(&fakeActivity{}, nil, nil), subjectPath("/streak"), nil)

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["currentStreak"] != float64(3) || body["longestStreak"] != float64(7) {
		t.Fatalf("неожиданное тело: %v", body)
	}
	if body["lastActiveDate"] != "2026-10-19" {
		t.Fatalf("дата должна быть в формате YYYY-MM-DD: %v", body["lastActiveDate"])
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
}

func TestDays_DefaultWindow(t *testing.T) {
	act := &fakeActivity{}
	rec := do(t, newTestRouter(act, nil, nil), subjectPath("/days"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if act.lastTo != today || act.lastFrom != today.AddDays(-29) {
		t.Fatalf("окно по умолчанию %s..%s", act.lastFrom, act.lastTo)
	}
}

func TestMonth_EmptyIsNull(t *testing.T) {
	rec := do(t, newTestRouter(&fakeActivity{}, nil, nil), subjectPath("/months/2026-09"), nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "null" {
		t.Fatalf("пустой месяц: %d %q", rec.Code, rec.Body.String())
	}

	rec = do(t, newTestRouter(&fakeActivity{}, nil, nil), subjectPath("/months/2026-10"), nil)
	if !strings.Contains(rec.Body.String(), `"month":"2026-10"`) {
		t.Fatalf("неожиданное тело: %s", rec.Body.String())
	}
}

func TestCompletionRate_Windows(t *testing.T) {
	act := &fakeActivity{}
	h := newTestRouter(act, nil, nil)

	rec := do(t, h, subjectPath("/completion-rate"), nil)
	if !act.monthToDate || !strings.Contains(rec.Body.String(), `"completionRate":79`) {
		t.Fatalf("без days ожидали месяц: %s", rec.Body.String())
	}

	rec = do(t, h, subjectPath("/completion-rate?days=14"), nil)
	if act.lastDays != 14 || !strings.Contains(rec.Body.String(), `"window":"14d"`) {
		t.Fatalf("days=14: %s", rec.Body.String())
	}
}

func TestCalendar_DenseFlag(t *testing.T) {
	act := &fakeActivity{}
	h := newTestRouter(act, nil, nil)

	do(t, h, subjectPath("/calendar"), nil)
	if act.lastDays != 30 || act.lastDense {
		t.Fatalf("по умолчанию: days=%d dense=%v", act.lastDays, act.lastDense)
	}
	rec := do(t, h, subjectPath("/calendar?days=7&dense=1"), nil)
	if act.lastDays != 7 || !act.lastDense {
		t.Fatalf("days=7&dense=1: days=%d dense=%v", act.lastDays, act.lastDense)
	}
	if !strings.Contains(rec.Body.String(), `"activityLevel":"high"`) {
		t.Fatalf("неожиданное тело: %s", rec.Body.String())
	}
}

func TestRecoverFromPanic(t *testing.T) {
	rec := do(t, newTestRouter(&fakeActivity{panicOnStreak: true}, nil, nil), subjectPath("/streak"), nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("паника должна давать 500, получили %d", rec.Code)
	}
}

func TestAPIKey(t *testing.T) {
	hash := middleware.EncodeArgon2id("secret-key", []byte("0123456789abcdef"), 64, 1, 1)
	h := newTestRouter(&fakeActivity{}, middleware.NewAPIKeyAuth(hash), nil)

	if rec := do(t, h, subjectPath("/streak"), nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("без ключа: %d", rec.Code)
	}
	if rec := do(t, h, subjectPath("/streak"), map[string]string{middleware.APIKeyHeader: "wrong"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("неверный ключ: %d", rec.Code)
	}
	for i := 0; i < 2; i++ {
		if rec := do(t, h, subjectPath("/streak"), map[string]string{middleware.APIKeyHeader: "secret-key"}); rec.Code != http.StatusOK {
			t.Fatalf("верный ключ (попытка %d): %d", i+1, rec.Code)
		}
	}
	if rec := do(t, h, "/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("health не требует ключа: %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	defer limiter.Close()
	h := newTestRouter(&fakeActivity{}, nil, limiter)

	for i := 0; i < 2; i++ {
		if rec := do(t, h, "/health", nil); rec.Code != http.StatusOK {
			t.Fatalf("запрос %d: %d", i+1, rec.Code)
		}
	}
	rec := do(t, h, "/health", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("третий запрос должен упереться в лимит: %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}

	// Другой адрес — свой лимит
	if rec := do(t, h, "/health", map[string]string{"X-Real-IP": "10.0.0.9"}); rec.Code != http.StatusOK {
		t.Fatalf("другой адрес: %d", rec.Code)
	}
}
