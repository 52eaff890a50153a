// Package subjects управляет профилями детей: имя для уведомлений,
// чат родителя в Telegram и отметки об уже отправленных уведомлениях.
// models.go описывает структуры данных для работы с таблицей subjects.
package subjects

import (
	"time"

	"cloud.google.com/go/civil"
)

// Subject представляет профиль ребёнка в базе данных.
// Сами записи о шагах хранятся отдельно (completion_events).
type Subject struct {
	ID                  string      `db:"id"`                    // UUID профиля
	DisplayName         string      `db:"display_name"`          // Имя для уведомлений родителю
	ParentChatID        *int64      `db:"parent_chat_id"`        // Чат родителя в Telegram (может быть nil)
	ReminderSentOn      *civil.Date `db:"reminder_sent_on"`      // Когда последний раз напоминали
	MilestoneNotifiedOn *civil.Date `db:"milestone_notified_on"` // Когда последний раз поздравляли
	CreatedAt           time.Time   `db:"created_at"`
	UpdatedAt           time.Time   `db:"updated_at"`
}

// HasParentChat — подключён ли родитель к уведомлениям.
func (s *Subject) HasParentChat() bool {
	return s.ParentChatID != nil && *s.ParentChatID != 0
}

// RemindedOn — отправляли ли напоминание в этот день.
func (s *Subject) RemindedOn(d civil.Date) bool {
	return s.ReminderSentOn != nil && *s.ReminderSentOn == d
}

// CongratulatedOn — отправляли ли поздравление в этот день.
func (s *Subject) CongratulatedOn(d civil.Date) bool {
	return s.MilestoneNotifiedOn != nil && *s.MilestoneNotifiedOn == d
}
