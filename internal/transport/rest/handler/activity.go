package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"glowkids.ru/activity-engine/internal/features/activity"
)

// ActivityService — операции чтения активности, которые отдаёт API.
type ActivityService interface {
	Streak(ctx context.Context, subjectID string) (activity.StreakResult, error)
	DailySummaries(ctx context.Context, subjectID string, from, to civil.Date) ([]activity.DaySummary, error)
	MonthlyStats(ctx context.Context, subjectID string, year int, month time.Month) (*activity.MonthlyStats, error)
	CompletionRateMonthToDate(ctx context.Context, subjectID string) (int, error)
	CompletionRateLookback(ctx context.Context, subjectID string, days int) (int, error)
	Calendar(ctx context.Context, subjectID string, days int, dense bool) ([]activity.CalendarDay, error)
	Segments(ctx context.Context, subjectID string, days int) (activity.SegmentBreakdown, error)
}

// ActivityHandler handles /v1/subjects/{id}/... endpoints
type ActivityHandler struct {
	svc         ActivityService
	today       func() civil.Date
	defaultDays int
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(svc ActivityService, today func() civil.Date, defaultDays int) *ActivityHandler {
	if defaultDays <= 0 {
		defaultDays = 30
	}
	return &ActivityHandler{svc: svc, today: today, defaultDays: defaultDays}
}

// CompletionRateResponse is the body of GET /completion-rate
type CompletionRateResponse struct {
	CompletionRate int    `json:"completionRate"`
	Window         string `json:"window"` // "month" или "<N>d"
}

// Streak handles GET /v1/subjects/{id}/streak
func (h *ActivityHandler) Streak(w http.ResponseWriter, r *http.Request) {
	id, ok := subjectID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Streak(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Days handles GET /v1/subjects/{id}/days?from=YYYY-MM-DD&to=YYYY-MM-DD
// Без параметров — последние defaultDays дней.
func (h *ActivityHandler) Days(w http.ResponseWriter, r *http.Request) {
	id, ok := subjectID(w, r)
	if !ok {
		return
	}

	to := h.today()
	from := to.AddDays(-(h.defaultDays - 1))
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = civil.ParseDate(raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date")
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = civil.ParseDate(raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date")
			return
		}
	}

	days, err := h.svc.DailySummaries(r.Context(), id, from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// Month handles GET /v1/subjects/{id}/months/{month}
// Месяц без записей отдаётся как null.
func (h *ActivityHandler) Month(w http.ResponseWriter, r *http.Request) {
	id, ok := subjectID(w, r)
	if !ok {
		return
	}
	year, month, err := activity.ParseMonth(mux.Vars(r)["month"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	stats, err := h.svc.MonthlyStats(r.Context(), id, year, month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// CompletionRate handles GET /v1/subjects/{id}/completion-rate[?days=N]
func (h *ActivityHandler) CompletionRate(w http.ResponseWriter, r *http.Request) {
	id, ok := subjectID(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("days") == "" {
		rate, err := h.svc.CompletionRateMonthToDate(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, CompletionRateResponse{CompletionRate: rate, Window: "month"})
		return
	}

	days, err := intParam(r, "days", h.defaultDays)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	rate, err := h.svc.CompletionRateLookback(r.Context(), id, days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CompletionRateResponse{CompletionRate: rate, Window: fmt.Sprintf("%dd", days)})
}

// Calendar handles GET /v1/subjects/{id}/calendar?days=N[&dense=1]
func (h *ActivityHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	id, ok := subjectID(w, r)
	if !ok {
		return
	}
	days, err := intParam(r, "days", h.defaultDays)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	heatmap, err := h.svc.Calendar(r.Context(), id, days, boolParam(r, "dense"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, heatmap)
}

// Segments handles GET /v1/subjects/{id}/segments?days=N
func (h *ActivityHandler) Segments(w http.ResponseWriter, r *http.Request) {
	id, ok := subjectID(w, r)
	if !ok {
		return
	}
	days, err := intParam(r, "days", h.defaultDays)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	breakdown, err := h.svc.Segments(r.Context(), id, days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// subjectID читает и нормализует UUID профиля из маршрута.
func subjectID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subject id")
		return "", false
	}
	return id.String(), true
}
