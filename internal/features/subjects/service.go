// Package subjects — service.go содержит бизнес-логику работы с профилями.
package subjects

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	log "github.com/sirupsen/logrus"
)

// Store — операции с профилями, которые нужны сервису.
// В продакшене это Repository, в тестах — фейк.
type Store interface {
	GetByID(ctx context.Context, id string) (*Subject, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListWithParentChat(ctx context.Context) ([]*Subject, error)
	MarkReminderSent(ctx context.Context, id string, day civil.Date) error
	MarkMilestoneNotified(ctx context.Context, id string, day civil.Date) error
}

// Service управляет профилями детей.
type Service struct {
	repo Store
}

// NewService создаёт новый сервис профилей.
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Get возвращает профиль по ID.
func (s *Service) Get(ctx context.Context, id string) (*Subject, error) {
	return s.repo.GetByID(ctx, id)
}

// Exists проверяет, есть ли профиль. Используется HTTP-слоем для ответа 404.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// ListNotifiable возвращает профили, родителям которых можно писать.
func (s *Service) ListNotifiable(ctx context.Context) ([]*Subject, error) {
	list, err := s.repo.ListWithParentChat(ctx)
	if err != nil {
		return nil, err
	}
	out := list[:0]
	for _, subj := range list {
		if subj.HasParentChat() {
			out = append(out, subj)
		}
	}
	return out, nil
}

// MarkReminderSent помечает, что напоминание уже отправлено в этот день.
func (s *Service) MarkReminderSent(ctx context.Context, subj *Subject, day civil.Date) error {
	if err := s.repo.MarkReminderSent(ctx, subj.ID, day); err != nil {
		return fmt.Errorf("профиль %s: %w", subj.ID, err)
	}
	subj.ReminderSentOn = &day
	log.WithFields(log.Fields{"subject_id": subj.ID, "day": day.String()}).Debug("Напоминание отмечено")
	return nil
}

// MarkMilestoneNotified помечает, что поздравление уже отправлено в этот день.
func (s *Service) MarkMilestoneNotified(ctx context.Context, subj *Subject, day civil.Date) error {
	if err := s.repo.MarkMilestoneNotified(ctx, subj.ID, day); err != nil {
		return fmt.Errorf("профиль %s: %w", subj.ID, err)
	}
	subj.MilestoneNotifiedOn = &day
	return nil
}
