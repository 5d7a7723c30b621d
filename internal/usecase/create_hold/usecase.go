package create_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	catalogRepo "github.com/avkuzn/Salon-BookingBot/internal/infra/storage/catalog"
	"github.com/avkuzn/Salon-BookingBot/pkg/ptr"
	"github.com/avkuzn/Salon-BookingBot/pkg/types"
)

// UseCase use case для создания удержания слота
type UseCase struct {
	appointmentRepo AppointmentRepository
	blockedRepo     BlockedRepository
	catalogRepo     CatalogRepository
	settingsRepo    SettingsRepository
	txManager       TransactionManager
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	blockedRepo BlockedRepository,
	catalogRepo CatalogRepository,
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		blockedRepo:     blockedRepo,
		catalogRepo:     catalogRepo,
		settingsRepo:    settingsRepo,
		txManager:       txManager,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания удержания.
// Вся проверка доступности повторяется внутри сериализуемой транзакции:
// список слотов, показанный клиенту, мог устареть, поэтому решение
// принимается только здесь, под блокировкой конкурирующих строк.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateHold: chat=%d, service=%d, date=%s, time=%s",
		req.ChatID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateHold: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем услугу
	service, err := uc.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateHold: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateHold: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsBookable() {
		uc.logger.Warn("CreateHold: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	var result *domain.Appointment

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Настройки читаются внутри транзакции: мастер мог их поменять
		settings, err := uc.settingsRepo.GetBookingSettings(txCtx)
		if err != nil {
			uc.logger.Error("CreateHold: failed to load settings: %v", err)
			return fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
		}

		// 3.2. Повторная валидация даты и времени по актуальным настройкам
		if err := validateDate(req.Date, now, uc.location, settings.BookingHorizonDays); err != nil {
			uc.logger.Warn("CreateHold: date validation failed: %v", err)
			return err
		}

		if !settings.IsWorkDay(req.Date.Weekday()) {
			uc.logger.Warn("CreateHold: %s is not a work day", req.Date.Format(domain.DateFormat))
			return ErrNotWorkDay
		}

		if err := validateSlotTime(req.StartTime, settings, service); err != nil {
			uc.logger.Warn("CreateHold: slot time validation failed: %v", err)
			return err
		}

		startAt, err := req.StartTime.At(req.Date, uc.location)
		if err != nil {
			return fmt.Errorf("%w: failed to compute start moment: %v", ErrInternal, err)
		}
		startAt = startAt.UTC()
		endAt := startAt.Add(time.Duration(service.DurationMinutes) * time.Minute)
		windowEnd := endAt.Add(time.Duration(service.BufferMinutes) * time.Minute)

		if err := validateLeadTime(startAt, now, settings.MinLeadTime()); err != nil {
			uc.logger.Warn("CreateHold: lead time validation failed: %v", err)
			return err
		}

		// 3.3. Активные записи вокруг слота блокируются через FOR UPDATE
		appointments, err := uc.appointmentRepo.ListActiveInWindow(txCtx, startAt, windowEnd, now)
		if err != nil {
			uc.logger.Error("CreateHold: failed to list appointments: %v", err)
			return fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
		}

		blocked, err := uc.blockedRepo.ListInWindow(txCtx, startAt, windowEnd)
		if err != nil {
			uc.logger.Error("CreateHold: failed to list blocked intervals: %v", err)
			return fmt.Errorf("%w: failed to list blocked intervals: %v", ErrInternal, err)
		}

		// 3.4. Финальная проверка доступности
		if !slotIsFree(startAt, windowEnd, appointments, blocked, now) {
			uc.logger.Warn("CreateHold: slot %s %s already taken",
				req.Date.Format(domain.DateFormat), req.StartTime)
			return ErrSlotNotAvailable
		}

		// 3.5. Создаем удержание со снимком данных услуги
		holdExpiresAt := now.Add(settings.HoldTimeout()).UTC()

		appointment := &domain.Appointment{
			ChatID:        req.ChatID,
			ServiceID:     req.ServiceID,
			StartAt:       startAt,
			EndAt:         endAt,
			Status:        domain.StatusHold,
			HoldExpiresAt: ptr.Ptr(holdExpiresAt),
			// Снимок данных услуги на момент создания
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			DurationMinutes: service.DurationMinutes,
			BufferMinutes:   service.BufferMinutes,
			Comment:         req.Comment,
			ClientPhone:     req.ClientPhone,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			uc.logger.Error("CreateHold: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateHold: successfully created hold id=%d, expires at %s",
		result.ID, result.HoldExpiresAt.Format(time.RFC3339))

	return &Response{
		ID:              result.ID,
		ChatID:          result.ChatID,
		ServiceID:       result.ServiceID,
		Date:            req.Date,
		StartTime:       types.NewTimeString(result.StartAt.In(uc.location)),
		StartAt:         result.StartAt,
		EndAt:           result.EndAt,
		Status:          string(result.Status),
		HoldExpiresAt:   *result.HoldExpiresAt,
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		DurationMinutes: result.DurationMinutes,
		BufferMinutes:   result.BufferMinutes,
		Comment:         result.Comment,
		ClientPhone:     result.ClientPhone,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
