// Package subjects — repository.go отвечает за все операции с таблицей subjects в БД.
// Каждая функция выполняет один SQL-запрос и возвращает результат или ошибку.
package subjects

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"glowkids.ru/activity-engine/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const selectSubjects = `
	SELECT id::text, display_name, parent_chat_id,
	       reminder_sent_on::text, milestone_notified_on::text,
	       created_at, updated_at
	FROM subjects
`

// GetByID: если не найден — ошибка common.ErrSubjectNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (*Subject, error) {
	rows, err := r.db.Query(ctx, selectSubjects+`WHERE id = $1::uuid`, id)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения профиля (id=%s): %w", id, err)
	}
	s, err := pgx.CollectOneRow(rows, scanSubject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w (id=%s)", common.ErrSubjectNotFound, id)
		}
		return nil, fmt.Errorf("ошибка чтения профиля (id=%s): %w", id, err)
	}
	return s, nil
}

func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM subjects WHERE id = $1::uuid)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("ошибка проверки существования: %w", err)
	}
	return exists, nil
}

// ListWithParentChat возвращает профили, родители которых подключили уведомления.
func (r *Repository) ListWithParentChat(ctx context.Context) ([]*Subject, error) {
	rows, err := r.db.Query(ctx, selectSubjects+`
		WHERE parent_chat_id IS NOT NULL
		ORDER BY display_name
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса профилей: %w", err)
	}
	out, err := pgx.CollectRows(rows, scanSubject)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

func (r *Repository) MarkReminderSent(ctx context.Context, id string, day civil.Date) error {
	query := `UPDATE subjects SET reminder_sent_on = $2::date, updated_at = NOW() WHERE id = $1::uuid`
	if _, err := r.db.Exec(ctx, query, id, day.String()); err != nil {
		return fmt.Errorf("ошибка отметки напоминания: %w", err)
	}
	return nil
}

func (r *Repository) MarkMilestoneNotified(ctx context.Context, id string, day civil.Date) error {
	query := `UPDATE subjects SET milestone_notified_on = $2::date, updated_at = NOW() WHERE id = $1::uuid`
	if _, err := r.db.Exec(ctx, query, id, day.String()); err != nil {
		return fmt.Errorf("ошибка отметки поздравления: %w", err)
	}
	return nil
}

func scanSubject(row pgx.CollectableRow) (*Subject, error) {
	var (
		s                    Subject
		reminded, notifiedOn *string
	)
	if err := row.Scan(
		&s.ID, &s.DisplayName, &s.ParentChatID,
		&reminded, &notifiedOn,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
	}

	var err error
	if s.ReminderSentOn, err = parseOptionalDate(reminded); err != nil {
		return nil, err
	}
	if s.MilestoneNotifiedOn, err = parseOptionalDate(notifiedOn); err != nil {
		return nil, err
	}
	return &s, nil
}

func parseOptionalDate(v *string) (*civil.Date, error) {
	if v == nil {
		return nil, nil
	}
	d, err := civil.ParseDate(*v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", common.ErrMalformedDate, *v)
	}
	return &d, nil
}
