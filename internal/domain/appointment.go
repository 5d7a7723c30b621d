package domain

import "time"

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	// StatusHold заявка создана клиентом и ждет подтверждения мастера
	StatusHold AppointmentStatus = "hold"
	// StatusBooked заявка подтверждена мастером
	StatusBooked AppointmentStatus = "booked"
	// StatusRejected заявка отклонена мастером или истекла по таймауту
	StatusRejected AppointmentStatus = "rejected"
	// StatusCancelled заявка отменена клиентом
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a client appointment in the system.
// Service data (name, price, duration, buffer) is snapshotted at creation:
// later edits of the service never change existing appointments.
type Appointment struct {
	ID        int64
	ChatID    int64 // Telegram chat клиента
	ServiceID int64

	StartAt time.Time // UTC
	EndAt   time.Time // UTC, StartAt + DurationMinutes, хранится явно

	Status        AppointmentStatus
	HoldExpiresAt *time.Time // не NULL только при Status == StatusHold

	Reminder24hSent bool
	Reminder2hSent  bool

	// Snapshot услуги на момент создания
	ServiceName     string
	ServicePrice    float64
	DurationMinutes int
	BufferMinutes   int

	Comment     *string
	ClientPhone *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if no further transitions are allowed
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusRejected || a.Status == StatusCancelled
}

// IsActiveAt returns true if the appointment occupies its window at the given
// moment: booked, or a hold whose expiry has not passed yet
func (a *Appointment) IsActiveAt(now time.Time) bool {
	switch a.Status {
	case StatusBooked:
		return true
	case StatusHold:
		return a.HoldExpiresAt == nil || a.HoldExpiresAt.After(now)
	default:
		return false
	}
}

// OccupiedUntil returns the end of the occupied window including the trailing
// buffer. The buffer extends only the end, never shifts the start.
func (a *Appointment) OccupiedUntil() time.Time {
	return a.EndAt.Add(time.Duration(a.BufferMinutes) * time.Minute)
}

// HoldExpired returns true if the hold deadline has passed
func (a *Appointment) HoldExpired(now time.Time) bool {
	return a.Status == StatusHold && a.HoldExpiresAt != nil && a.HoldExpiresAt.Before(now)
}

// CanBeConfirmed returns true if the operator may confirm the appointment
func (a *Appointment) CanBeConfirmed() bool {
	return a.Status == StatusHold
}

// CanBeRejected returns true if the operator may reject the appointment
func (a *Appointment) CanBeRejected() bool {
	return a.Status == StatusHold
}

// CanBeCancelled returns true if the client may cancel the appointment
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusHold || a.Status == StatusBooked
}

// Overlaps reports whether two half-open intervals [st, en) and [bs, be)
// intersect. Touching boundaries is not an overlap.
func Overlaps(st, en, bs, be time.Time) bool {
	return st.Before(be) && en.After(bs)
}
