package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SubjectLookup проверяет существование профиля.
type SubjectLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// SubjectFilter пропускает только запросы к существующим профилям.
// ID берётся из переменной маршрута {id}.
type SubjectFilter struct {
	subjects SubjectLookup
}

func NewSubjectFilter(subjects SubjectLookup) *SubjectFilter {
	return &SubjectFilter{subjects: subjects}
}

// RequireSubject отвечает 400 на некорректный UUID и 404 на неизвестный профиль.
func (f *SubjectFilter) RequireSubject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := mux.Vars(r)["id"]
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid subject id")
			return
		}

		exists, err := f.subjects.Exists(r.Context(), id.String())
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"component":  "SubjectFilter",
				"subject_id": id.String(),
			}).Error("Ошибка проверки профиля")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !exists {
			writeError(w, http.StatusNotFound, "subject not found")
			return
		}
		next.ServeHTTP(w, r)
	})
}
