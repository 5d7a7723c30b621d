package domain

import "time"

// Service represents a bookable service (haircut, manicure, ...).
// DurationMinutes defines the appointment length, BufferMinutes the cleanup
// gap appended to the occupied window after each appointment.
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	BufferMinutes   int
	Price           float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsBookable returns true if the service can be offered to clients
func (s *Service) IsBookable() bool {
	return s.Active && s.DurationMinutes >= 1
}
