package domain

// NotificationKind kind of an outbound client notification
type NotificationKind string

const (
	// NotificationHoldExpired заявка не была подтверждена вовремя
	NotificationHoldExpired NotificationKind = "hold_expired"
	// NotificationReminder24h напоминание за сутки
	NotificationReminder24h NotificationKind = "reminder_24h"
	// NotificationReminder2h напоминание за два часа
	NotificationReminder2h NotificationKind = "reminder_2h"
)

// Notification outbound notification record. Queued by the maintenance pass
// and dispatched only after its transaction is committed.
type Notification struct {
	ChatID        int64
	Kind          NotificationKind
	AppointmentID int64
	ServiceName   string
}
