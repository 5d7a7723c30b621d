package run_maintenance

import "github.com/avkuzn/Salon-BookingBot/internal/domain"

// Result итог одного обслуживающего прохода.
// Notifications накапливаются внутри транзакции и отправляются
// вызывающей стороной только после commit.
type Result struct {
	ExpiredHolds  int                   // Количество просроченных удержаний
	Reminders24h  int                   // Количество отмеченных напоминаний за сутки
	Reminders2h   int                   // Количество отмеченных напоминаний за два часа
	Notifications []domain.Notification // Уведомления для отправки после commit
}
