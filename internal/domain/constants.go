package domain

import "time"

// Default settings values (used when a key is missing from the store)
const (
	DefaultSlotStepMinutes    = 30
	DefaultMinLeadTimeMinutes = 120
	DefaultWorkStart          = "10:00"
	DefaultWorkEnd            = "20:00"
	DefaultWorkDays           = "0,1,2,3,4" // пн-пт
	DefaultHoldTimeoutMinutes = 30
	DefaultBookingHorizonDays = 14
)

// Business validation constants
const (
	MinSlotStepMinutes     = 5
	MaxSlotStepMinutes     = 240
	MinServiceDurationMin  = 1
	MaxServiceDurationMin  = 480 // 8 hours
	MaxCommentLength       = 500
	MaxSlotsPerDayKeyboard = 40 // ограничение клавиатуры в чате
)

// Reminder windows. Окна шириной в час: при любом разумном интервале
// тика (< 1 часа) напоминание не теряется, а sent-флаг гарантирует
// отправку не более одного раза.
const (
	Reminder24hLead = 24 * time.Hour
	Reminder2hLead  = 2 * time.Hour
	ReminderWindow  = time.Hour
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []AppointmentStatus{
	StatusRejected,
	StatusCancelled,
}

// NonTerminalStatuses статусы, занимающие временное окно
var NonTerminalStatuses = []AppointmentStatus{
	StatusHold,
	StatusBooked,
}
