package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
)

// Тексты уведомлений обслуживающего прохода
const (
	textNotifyHoldExpired = "⌛ Заявка №%d (%s) не была подтверждена вовремя и отменена.\n" +
		"Вы можете выбрать другое время."
	textNotifyReminder24h = "🔔 Напоминаем: завтра у вас запись №%d (%s)."
	textNotifyReminder2h  = "🔔 Через два часа у вас запись №%d (%s). Ждем вас!"
)

// SendNotification отправляет уведомление клиенту.
// Реализует scheduler.Sender.
func (r *Router) SendNotification(n domain.Notification) error {
	var text string

	switch n.Kind {
	case domain.NotificationHoldExpired:
		text = fmt.Sprintf(textNotifyHoldExpired, n.AppointmentID, n.ServiceName)
	case domain.NotificationReminder24h:
		text = fmt.Sprintf(textNotifyReminder24h, n.AppointmentID, n.ServiceName)
	case domain.NotificationReminder2h:
		text = fmt.Sprintf(textNotifyReminder2h, n.AppointmentID, n.ServiceName)
	default:
		return fmt.Errorf("telegram: unknown notification kind %q", n.Kind)
	}

	_, err := r.bot.Send(tgbotapi.NewMessage(n.ChatID, text))
	return err
}
