package telegram

import (
	"context"
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	appointmentModels "github.com/avkuzn/Salon-BookingBot/internal/service/appointments/models"
	settingsModels "github.com/avkuzn/Salon-BookingBot/internal/service/settings/models"
	"github.com/avkuzn/Salon-BookingBot/internal/usecase/create_hold"
	"github.com/avkuzn/Salon-BookingBot/internal/usecase/get_available_slots"
)

// SlotsUseCase интерфейс use case расчета доступных слотов
type SlotsUseCase interface {
	Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error)
}

// HoldUseCase интерфейс use case создания удержания
type HoldUseCase interface {
	Execute(ctx context.Context, req *create_hold.Request) (*create_hold.Response, error)
}

// AppointmentsService интерфейс сервиса переходов статусов
type AppointmentsService interface {
	Confirm(ctx context.Context, id int64) (*appointmentModels.DecisionResponse, error)
	Reject(ctx context.Context, id int64) (*appointmentModels.DecisionResponse, error)
	Cancel(ctx context.Context, id int64, chatID int64) (*appointmentModels.AppointmentResponse, error)
	ListForClient(ctx context.Context, chatID int64, activeOnly bool) (*appointmentModels.AppointmentListResponse, error)
}

// SettingsService интерфейс сервиса настроек мастера
type SettingsService interface {
	Get(ctx context.Context) (*settingsModels.SettingsResponse, error)
	Update(ctx context.Context, key, value string) (*settingsModels.SettingsResponse, error)
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	ListActive(ctx context.Context) ([]*domain.Service, error)
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
}

// SettingsRepository интерфейс чтения настроек расписания
type SettingsRepository interface {
	GetBookingSettings(ctx context.Context) (*domain.BookingSettings, error)
}

// BlockedRepository интерфейс интервалов недоступности мастера
type BlockedRepository interface {
	ListInWindow(ctx context.Context, from, to time.Time) ([]*domain.BlockedInterval, error)
	Create(ctx context.Context, b *domain.BlockedInterval) (*domain.BlockedInterval, error)
	Delete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
