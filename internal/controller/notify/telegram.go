// Package notify сообщает студентам об изменении их записей
package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/formatting"
	"github.com/Freeeeeet/scheduler_grading/internal/model"
	"github.com/Freeeeeet/scheduler_grading/internal/service"
)

// MessageSender часть *bot.Bot, которая нужна для уведомлений
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

var _ MessageSender = (*bot.Bot)(nil)

// TelegramNotifier отправляет уведомления студентам с привязанным Telegram
type TelegramNotifier struct {
	sender   MessageSender
	location *time.Location
	logger   *zap.Logger
}

var _ service.Notifier = (*TelegramNotifier)(nil)

func NewTelegramNotifier(sender MessageSender, location *time.Location, logger *zap.Logger) *TelegramNotifier {
	if location == nil {
		location = time.UTC
	}
	return &TelegramNotifier{sender: sender, location: location, logger: logger}
}

// NotifyGrade сообщает новую оценку. Пустая оценка - оценка снята
func (n *TelegramNotifier) NotifyGrade(ctx context.Context, ac *model.AppointmentContext, grade string) error {
	text := fmt.Sprintf("📝 <b>%s</b>\n🕐 %s\n\n", html.EscapeString(ac.Scheduler.Name), n.slotTime(ac))
	if grade == "" {
		text += "Оценка снята"
	} else {
		text += "Ваша оценка: <b>" + html.EscapeString(grade) + "</b>"
	}
	return n.send(ctx, ac, text)
}

// NotifyAttendance сообщает отметку о посещении
func (n *TelegramNotifier) NotifyAttendance(ctx context.Context, ac *model.AppointmentContext, attended bool) error {
	status := "❌ Посещение не отмечено"
	if attended {
		status = "✅ Посещение отмечено"
	}
	text := fmt.Sprintf("📝 <b>%s</b>\n🕐 %s\n\n%s", html.EscapeString(ac.Scheduler.Name), n.slotTime(ac), status)
	return n.send(ctx, ac, text)
}

func (n *TelegramNotifier) slotTime(ac *model.AppointmentContext) string {
	slot := formatting.FormatSlotTime(ac.Slot.StartTime, ac.Slot.Duration, n.location)
	if ac.Slot.Duration > 0 {
		slot += " (" + formatting.FormatDuration(ac.Slot.Duration) + ")"
	}
	return slot
}

func (n *TelegramNotifier) send(ctx context.Context, ac *model.AppointmentContext, text string) error {
	// Студент без Telegram - уведомлять некуда
	if ac.Student.TelegramID == nil {
		n.logger.Debug("Student has no telegram, skipping notification",
			zap.Int64("student_id", ac.Student.ID))
		return nil
	}

	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    *ac.Student.TelegramID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// Nop ничего не отправляет; используется без TELEGRAM_TOKEN
type Nop struct{}

func (Nop) NotifyGrade(context.Context, *model.AppointmentContext, string) error { return nil }

func (Nop) NotifyAttendance(context.Context, *model.AppointmentContext, bool) error { return nil }
