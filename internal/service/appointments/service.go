package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	appointmentRepo "github.com/avkuzn/Salon-BookingBot/internal/infra/storage/appointment"
	"github.com/avkuzn/Salon-BookingBot/internal/service/appointments/models"
)

// Service сервис переходов статусов записей
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Confirm подтверждает удержание (решение мастера).
// Переход выполняется в транзакции с блокировкой строки, чтобы
// одновременная отмена клиентом или обслуживающий проход не перезаписали
// чужое решение. Просроченное удержание подтвердить нельзя.
func (s *Service) Confirm(ctx context.Context, id int64) (*models.DecisionResponse, error) {
	s.logger.Info("Confirm: confirming appointment id=%d", id)
	return s.decide(ctx, id, domain.StatusBooked)
}

// Reject отклоняет удержание (решение мастера)
func (s *Service) Reject(ctx context.Context, id int64) (*models.DecisionResponse, error) {
	s.logger.Info("Reject: rejecting appointment id=%d", id)
	return s.decide(ctx, id, domain.StatusRejected)
}

func (s *Service) decide(ctx context.Context, id int64, target domain.AppointmentStatus) (*models.DecisionResponse, error) {
	now := s.timeProvider.Now()

	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: decide - repository error: %v", ErrInternal, err)
		}

		switch target {
		case domain.StatusBooked:
			if !appointment.CanBeConfirmed() {
				return fmt.Errorf("%w: cannot confirm appointment in status %s", ErrInvalidTransition, appointment.Status)
			}
			// Просроченное, но еще не сметенное удержание подтверждать поздно,
			// клиент уже мог получить уведомление об истечении
			if appointment.HoldExpired(now) {
				return ErrHoldExpired
			}
		case domain.StatusRejected:
			if !appointment.CanBeRejected() {
				return fmt.Errorf("%w: cannot reject appointment in status %s", ErrInvalidTransition, appointment.Status)
			}
		default:
			return fmt.Errorf("%w: unexpected target status %s", ErrInternal, target)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, target); err != nil {
			return fmt.Errorf("%w: decide - update status: %v", ErrInternal, err)
		}

		appointment.Status = target
		appointment.HoldExpiresAt = nil
		result = appointment
		return nil
	})

	if err != nil {
		s.logger.Warn("decide: appointment id=%d -> %s failed: %v", id, target, err)
		return nil, err
	}

	s.logger.Info("decide: appointment id=%d -> %s", id, target)
	return &models.DecisionResponse{
		Appointment:  models.FromDomainAppointment(result),
		ClientChatID: result.ChatID,
	}, nil
}

// Cancel отменяет запись по инициативе клиента.
// Клиент может отменить только свою запись в статусе hold или booked.
func (s *Service) Cancel(ctx context.Context, id int64, chatID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by chat=%d", id, chatID)

	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if appointment.ChatID != chatID {
			return ErrAccessDenied
		}

		if !appointment.CanBeCancelled() {
			return fmt.Errorf("%w: cannot cancel appointment in status %s", ErrInvalidTransition, appointment.Status)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, domain.StatusCancelled); err != nil {
			return fmt.Errorf("%w: Cancel - update status: %v", ErrInternal, err)
		}

		appointment.Status = domain.StatusCancelled
		appointment.HoldExpiresAt = nil
		result = appointment
		return nil
	})

	if err != nil {
		s.logger.Warn("Cancel: appointment id=%d failed: %v", id, err)
		return nil, err
	}

	s.logger.Info("Cancel: appointment id=%d cancelled by chat=%d", id, chatID)
	return models.FromDomainAppointment(result), nil
}

// GetByID получает запись по ID без проверки прав (для мастера и API)
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListForClient получает записи клиента, по умолчанию только активные
func (s *Service) ListForClient(ctx context.Context, chatID int64, activeOnly bool) (*models.AppointmentListResponse, error) {
	if chatID <= 0 {
		return nil, fmt.Errorf("%w: chatID must be positive", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.ListByChatID(ctx, chatID, activeOnly)
	if err != nil {
		s.logger.Error("ListForClient: repository error for chat=%d: %v", chatID, err)
		return nil, fmt.Errorf("%w: ListForClient - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}
