package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"glowkids.ru/activity-engine/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError переводит ошибку сервиса в HTTP-статус.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrEmptySubject),
		errors.Is(err, common.ErrInvalidRange),
		errors.Is(err, common.ErrInvalidLookback),
		errors.Is(err, common.ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrSubjectNotFound):
		writeError(w, http.StatusNotFound, "subject not found")
	default:
		log.WithError(err).WithField("path", r.URL.Path).Error("Ошибка обработки запроса")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// intParam читает положительное целое из query; def — если параметра нет.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, common.ErrInvalidLookback
	}
	return n, nil
}

func boolParam(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
