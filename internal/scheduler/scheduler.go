package scheduler

import (
	"context"
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	"github.com/avkuzn/Salon-BookingBot/internal/usecase/run_maintenance"
)

// MaintenanceUseCase интерфейс обслуживающего прохода
type MaintenanceUseCase interface {
	Execute(ctx context.Context) (*run_maintenance.Result, error)
}

// Sender интерфейс отправки уведомлений клиентам
type Sender interface {
	SendNotification(n domain.Notification) error
}

// Metrics интерфейс метрик планировщика
type Metrics interface {
	IncMaintenanceTick()
	IncMaintenanceTickError()
	IncHoldExpired()
	IncReminderSent(kind string)
	IncNotificationError()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler периодически запускает обслуживающий проход и рассылает
// накопленные им уведомления
type Scheduler struct {
	maintenance MaintenanceUseCase
	sender      Sender
	metrics     Metrics
	logger      Logger
	interval    time.Duration
}

// New создает новый планировщик
func New(
	maintenance MaintenanceUseCase,
	sender Sender,
	metrics Metrics,
	logger Logger,
	interval time.Duration,
) *Scheduler {
	return &Scheduler{
		maintenance: maintenance,
		sender:      sender,
		metrics:     metrics,
		logger:      logger,
		interval:    interval,
	}
}

// Run запускает цикл обслуживания до отмены контекста.
// Первый проход выполняется сразу, чтобы накопившиеся за простой
// удержания не ждали целый интервал.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler: started, interval=%s", s.interval)

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler: stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	s.metrics.IncMaintenanceTick()

	result, err := s.maintenance.Execute(ctx)
	if err != nil {
		// Проход откатился целиком, просроченные удержания и напоминания
		// будут обработаны на следующем тике
		s.metrics.IncMaintenanceTickError()
		s.logger.Error("scheduler: maintenance pass failed: %v", err)
		return
	}

	for i := 0; i < result.ExpiredHolds; i++ {
		s.metrics.IncHoldExpired()
	}
	for i := 0; i < result.Reminders24h; i++ {
		s.metrics.IncReminderSent(string(domain.NotificationReminder24h))
	}
	for i := 0; i < result.Reminders2h; i++ {
		s.metrics.IncReminderSent(string(domain.NotificationReminder2h))
	}

	// Уведомления отправляются после commit. Сбой доставки не откатывает
	// изменения статусов: факт "напоминание отмечено" важнее доставки,
	// повторная отправка здесь привела бы к дублям
	for _, n := range result.Notifications {
		if err := s.sender.SendNotification(n); err != nil {
			s.metrics.IncNotificationError()
			s.logger.Warn("scheduler: failed to send %s notification to chat=%d: %v", n.Kind, n.ChatID, err)
		}
	}
}
