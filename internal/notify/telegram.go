// Package notify отправляет уведомления родителям.
// Основной канал — Telegram-бот; без токена сообщения только пишутся в лог.
package notify

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"
)

// Notifier отправляет текст в чат родителя.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Telegram отправляет сообщения через Bot API.
type Telegram struct {
	bot *telego.Bot
}

// NewTelegram создаёт бота и проверяет токен запросом getMe.
func NewTelegram(ctx context.Context, token string, debug bool) (*Telegram, error) {
	opts := []telego.BotOption{telego.WithDiscardLogger()}
	if debug {
		opts = []telego.BotOption{telego.WithDefaultDebugLogger()}
	}

	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	me, err := bot.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка авторизации в Telegram: %w", err)
	}
	log.Infof("Авторизован как @%s", me.Username)

	return &Telegram{bot: bot}, nil
}

// Send отправляет текстовое сообщение в чат.
func (t *Telegram) Send(ctx context.Context, chatID int64, text string) error {
	if _, err := t.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Debug("Не удалось отправить сообщение")
		return fmt.Errorf("telegram: %w", err)
	}
	log.WithField("chat_id", chatID).Debug("Сообщение отправлено")
	return nil
}

// LogOnly — заглушка для окружений без токена: пишет сообщение в лог.
type LogOnly struct{}

// Send пишет сообщение в лог и ничего не отправляет.
func (LogOnly) Send(ctx context.Context, chatID int64, text string) error {
	log.WithFields(log.Fields{
		"chat_id": chatID,
		"text":    text,
	}).Info("Уведомление (Telegram отключён)")
	return nil
}
