package run_maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
)

// UseCase use case обслуживающего прохода: просроченные удержания
// и напоминания о предстоящих визитах
type UseCase struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет один обслуживающий проход в одной транзакции.
// Любая ошибка откатывает весь проход: флаги напоминаний и статусы
// меняются только вместе. Уведомления возвращаются вызывающей стороне
// и отправляются после commit, чтобы сбой доставки не откатил изменения.
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	now := uc.timeProvider.Now().UTC()

	result := &Result{
		Notifications: make([]domain.Notification, 0),
	}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Просроченные удержания переводятся в rejected
		expired, err := uc.appointmentRepo.ListExpiredHolds(txCtx, now)
		if err != nil {
			uc.logger.Error("RunMaintenance: failed to list expired holds: %v", err)
			return fmt.Errorf("%w: failed to list expired holds: %v", ErrInternal, err)
		}

		for _, a := range expired {
			if err := uc.appointmentRepo.UpdateStatus(txCtx, a.ID, domain.StatusRejected); err != nil {
				uc.logger.Error("RunMaintenance: failed to reject expired hold id=%d: %v", a.ID, err)
				return fmt.Errorf("%w: failed to reject expired hold: %v", ErrInternal, err)
			}

			result.ExpiredHolds++
			result.Notifications = append(result.Notifications, domain.Notification{
				ChatID:        a.ChatID,
				Kind:          domain.NotificationHoldExpired,
				AppointmentID: a.ID,
				ServiceName:   a.ServiceName,
			})
		}

		// 2. Напоминания о подтвержденных записях. Окно запроса покрывает
		// оба вида напоминаний: запись со стартом позже now+25h еще не
		// попала в суточное окно, раньше now напоминать поздно.
		booked, err := uc.appointmentRepo.ListBookedBetween(txCtx, now, now.Add(domain.Reminder24hLead+domain.ReminderWindow))
		if err != nil {
			uc.logger.Error("RunMaintenance: failed to list booked appointments: %v", err)
			return fmt.Errorf("%w: failed to list booked appointments: %v", ErrInternal, err)
		}

		for _, a := range booked {
			if !a.Reminder24hSent && inReminderWindow(now, a.StartAt, domain.Reminder24hLead) {
				if err := uc.appointmentRepo.MarkReminderSent(txCtx, a.ID, domain.NotificationReminder24h); err != nil {
					uc.logger.Error("RunMaintenance: failed to mark 24h reminder id=%d: %v", a.ID, err)
					return fmt.Errorf("%w: failed to mark 24h reminder: %v", ErrInternal, err)
				}

				result.Reminders24h++
				result.Notifications = append(result.Notifications, domain.Notification{
					ChatID:        a.ChatID,
					Kind:          domain.NotificationReminder24h,
					AppointmentID: a.ID,
					ServiceName:   a.ServiceName,
				})
			}

			if !a.Reminder2hSent && inReminderWindow(now, a.StartAt, domain.Reminder2hLead) {
				if err := uc.appointmentRepo.MarkReminderSent(txCtx, a.ID, domain.NotificationReminder2h); err != nil {
					uc.logger.Error("RunMaintenance: failed to mark 2h reminder id=%d: %v", a.ID, err)
					return fmt.Errorf("%w: failed to mark 2h reminder: %v", ErrInternal, err)
				}

				result.Reminders2h++
				result.Notifications = append(result.Notifications, domain.Notification{
					ChatID:        a.ChatID,
					Kind:          domain.NotificationReminder2h,
					AppointmentID: a.ID,
					ServiceName:   a.ServiceName,
				})
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if result.ExpiredHolds > 0 || result.Reminders24h > 0 || result.Reminders2h > 0 {
		uc.logger.Info("RunMaintenance: expired=%d, reminders24h=%d, reminders2h=%d",
			result.ExpiredHolds, result.Reminders24h, result.Reminders2h)
	}

	return result, nil
}

// inReminderWindow проверяет, что now попадает в часовое окно напоминания
// [startAt - lead, startAt - lead + window]
func inReminderWindow(now, startAt time.Time, lead time.Duration) bool {
	windowStart := startAt.Add(-lead)
	windowEnd := windowStart.Add(domain.ReminderWindow)
	return !now.Before(windowStart) && !now.After(windowEnd)
}
