// Package middleware содержит промежуточные обработчики HTTP: логирование,
// восстановление после паники, rate-limiting, проверку ключа API и профиля.
package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LogRequest логирует запрос после ответа.
// Записывает: метод, путь, статус, длительность, адрес клиента.
func LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Microsecond).String(),
			"ip":       ClientIP(r),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("HTTP запрос завершился ошибкой")
			return
		}
		entry.Debug("HTTP запрос")
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
