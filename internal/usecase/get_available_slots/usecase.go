package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	catalogRepo "github.com/avkuzn/Salon-BookingBot/internal/infra/storage/catalog"
)

// UseCase use case для расчета доступных слотов на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	blockedRepo     BlockedRepository
	catalogRepo     CatalogRepository
	settingsRepo    SettingsRepository
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
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		blockedRepo:     blockedRepo,
		catalogRepo:     catalogRepo,
		settingsRepo:    settingsRepo,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case расчета доступных слотов.
// Расчет не резервирует ничего: список может устареть к моменту выбора,
// финальная проверка делается при создании удержания.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: chat=%d, service=%d, date=%s",
		req.ChatID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Настройки расписания читаются заново при каждом запросе
	settings, err := uc.settingsRepo.GetBookingSettings(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
	}

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsBookable() {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Валидация даты: прошлое и горизонт бронирования
	if err := validateDate(req.Date, now, uc.location, settings.BookingHorizonDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 5. Нерабочий день: пустой список, не ошибка
	if !settings.IsWorkDay(req.Date.Weekday()) {
		uc.logger.Info("GetAvailableSlots: %s is not a work day", req.Date.Format(domain.DateFormat))
		return &Response{Date: req.Date, ServiceID: req.ServiceID, Slots: []Slot{}}, nil
	}

	// 6. Генерируем кандидатов и отсекаем слишком близкие к текущему моменту
	candidates, err := generateCandidateSlots(settings, service, req.Date, uc.location)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to generate candidates: %v", ErrInternal, err)
	}

	candidates = filterByLeadTime(candidates, now, settings.MinLeadTime())

	if len(candidates) == 0 {
		return &Response{Date: req.Date, ServiceID: req.ServiceID, Slots: []Slot{}}, nil
	}

	// 7. Загружаем занятость дня: активные записи и заблокированные интервалы.
	// Окно запроса расширено буфером услуги, чтобы поймать пересечения
	// с интервалами, начинающимися сразу после конца рабочего дня.
	dayStart, dayEnd, err := dayBounds(settings, req.Date, uc.location)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to compute day bounds: %v", ErrInternal, err)
	}
	windowEnd := dayEnd.Add(time.Duration(service.DurationMinutes+service.BufferMinutes) * time.Minute)

	appointments, err := uc.appointmentRepo.ListActiveInWindow(ctx, dayStart, windowEnd, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	blocked, err := uc.blockedRepo.ListInWindow(ctx, dayStart, windowEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list blocked intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to list blocked intervals: %v", ErrInternal, err)
	}

	// 8. Отсекаем слоты, чье занятое окно пересекается с занятостью
	intervals := collectOccupiedIntervals(appointments, blocked, now)
	slots := filterByOccupied(candidates, service, intervals)

	uc.logger.Info("GetAvailableSlots: %d slots for chat=%d, service=%d, date=%s",
		len(slots), req.ChatID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		Slots:     slots,
	}, nil
}
