// Package rest — HTTP API для клиентского приложения: только чтение
// стриков, истории и тепловой карты.
package rest

import (
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/gorilla/mux"

	"glowkids.ru/activity-engine/internal/transport/rest/handler"
	"glowkids.ru/activity-engine/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	Activity    handler.ActivityService
	Subjects    middleware.SubjectLookup
	Today       func() civil.Date
	DefaultDays int
	Auth        *middleware.APIKeyAuth
	Limiter     *middleware.RateLimiter // nil отключает ограничение
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	activityHandler := handler.NewActivityHandler(c.Activity, c.Today, c.DefaultDays)
	subjectFilter := middleware.NewSubjectFilter(c.Subjects)

	r.Use(middleware.Recover)
	r.Use(middleware.LogRequest)
	if c.Limiter != nil {
		r.Use(c.Limiter.Middleware)
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()
	if c.Auth != nil {
		v1.Use(c.Auth.RequireKey)
	}

	subjects := v1.PathPrefix("/subjects/{id}").Subrouter()
	subjects.Use(subjectFilter.RequireSubject)

	subjects.HandleFunc("/streak", activityHandler.Streak).Methods("GET")
	subjects.HandleFunc("/days", activityHandler.Days).Methods("GET")
	subjects.HandleFunc("/months/{month}", activityHandler.Month).Methods("GET")
	subjects.HandleFunc("/completion-rate", activityHandler.CompletionRate).Methods("GET")
	subjects.HandleFunc("/calendar", activityHandler.Calendar).Methods("GET")
	subjects.HandleFunc("/segments", activityHandler.Segments).Methods("GET")

	return r
}
