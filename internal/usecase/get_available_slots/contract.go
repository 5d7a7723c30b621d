package get_available_slots

import (
	"context"
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListActiveInWindow получает активные записи, чьи занятые окна пересекают [from, to)
	ListActiveInWindow(ctx context.Context, from, to, now time.Time) ([]*domain.Appointment, error)
}

// BlockedRepository интерфейс репозитория заблокированных интервалов
type BlockedRepository interface {
	ListInWindow(ctx context.Context, from, to time.Time) ([]*domain.BlockedInterval, error)
}

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	GetBookingSettings(ctx context.Context) (*domain.BookingSettings, error)
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
