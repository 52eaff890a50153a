// Package activity — repository.go читает записи о выполненных шагах из таблицы completion_events.
// Это единственное место с вводом-выводом: движок получает уже загруженный список.
package activity

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для чтения completion_events.
type Repository struct {
	db  *pgxpool.Pool
	loc *time.Location // Зона для дат, которые приходится выводить из completed_at
}

// NewRepository создаёт новый репозиторий записей.
func NewRepository(db *pgxpool.Pool, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

const selectEvents = `
	SELECT subject_id::text, completed_on::text, completed_at,
	       segment, xp_earned, routine_id::text
	FROM completion_events
`

// ListEvents возвращает всю историю профиля. Используется для стрика.
func (r *Repository) ListEvents(ctx context.Context, subjectID string) ([]CompletionEvent, error) {
	query := selectEvents + `WHERE subject_id = $1::uuid`
	return r.query(ctx, query, subjectID)
}

// ListEventsBetween возвращает записи профиля за окно [from, to] включительно.
// Записи без completed_on отбираются по completed_at в часовом поясе репозитория.
func (r *Repository) ListEventsBetween(ctx context.Context, subjectID string, from, to civil.Date) ([]CompletionEvent, error) {
	query := selectEvents + `
		WHERE subject_id = $1::uuid
		  AND (
		        completed_on BETWEEN $2::date AND $3::date
		     OR (completed_on IS NULL AND completed_at >= $4 AND completed_at < $5)
		  )
	`
	return r.query(ctx, query,
		subjectID, from.String(), to.String(),
		from.In(r.loc), to.AddDays(1).In(r.loc),
	)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]CompletionEvent, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса записей: %w", err)
	}
	defer rows.Close()

	raws, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (RawEvent, error) {
		var raw RawEvent
		err := row.Scan(
			&raw.SubjectID, &raw.Date, &raw.CompletedAt,
			&raw.Segment, &raw.XPEarned, &raw.RoutineID,
		)
		return raw, err
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения записей: %w", err)
	}

	return NormalizeEvents(raws, r.loc), nil
}
