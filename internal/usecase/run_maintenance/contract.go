package run_maintenance

import (
	"context"
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListExpiredHolds получает удержания с истекшим сроком (FOR UPDATE в транзакции)
	ListExpiredHolds(ctx context.Context, now time.Time) ([]*domain.Appointment, error)
	ListBookedBetween(ctx context.Context, from, to time.Time) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	MarkReminderSent(ctx context.Context, id int64, kind domain.NotificationKind) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
