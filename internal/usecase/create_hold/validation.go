package create_hold

import (
	"fmt"
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	"github.com/avkuzn/Salon-BookingBot/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ChatID <= 0 {
		return fmt.Errorf("%w: chatID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше горизонта бронирования
func validateDate(requestDate, now time.Time, loc *time.Location, horizonDays int) error {
	nowLocal := now.In(loc)
	dateOnly := time.Date(requestDate.Year(), requestDate.Month(), requestDate.Day(), 0, 0, 0, 0, loc)
	todayOnly := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, loc)

	if dateOnly.Before(todayOnly) {
		return ErrInvalidDate
	}

	maxDate := todayOnly.AddDate(0, 0, horizonDays)
	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, horizonDays)
	}

	return nil
}

// validateSlotTime проверяет, что выбранное время попадает на сетку слотов
// и услуга целиком помещается в рабочие часы
func validateSlotTime(
	startTime types.TimeString,
	settings *domain.BookingSettings,
	service *domain.Service,
) error {
	if startTime.IsBefore(settings.WorkStart) {
		return fmt.Errorf("%w: %s is before working hours", ErrInvalidTimeSlot, startTime)
	}

	startMin, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	workStartMin, err := settings.WorkStart.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if (startMin-workStartMin)%settings.SlotStepMinutes != 0 {
		return fmt.Errorf("%w: %s is not aligned to the %d minute grid", ErrInvalidTimeSlot, startTime, settings.SlotStepMinutes)
	}

	slotEnd, err := startTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		return fmt.Errorf("%w: %s does not fit the working day", ErrInvalidTimeSlot, startTime)
	}
	if slotEnd.IsAfter(settings.WorkEnd) {
		return fmt.Errorf("%w: service does not fit before closing time", ErrInvalidTimeSlot)
	}

	return nil
}

// validateLeadTime проверяет минимальное время до начала записи
func validateLeadTime(startAt, now time.Time, minLead time.Duration) error {
	if startAt.Before(now.Add(minLead)) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, int(minLead.Minutes()))
	}
	return nil
}

// slotIsFree проверяет, что занятое окно слота не пересекается
// с активными записями и заблокированными интервалами
func slotIsFree(
	startAt, windowEnd time.Time,
	appointments []*domain.Appointment,
	blocked []*domain.BlockedInterval,
	now time.Time,
) bool {
	for _, a := range appointments {
		if !a.IsActiveAt(now) {
			continue
		}
		if domain.Overlaps(startAt, windowEnd, a.StartAt, a.OccupiedUntil()) {
			return false
		}
	}

	for _, b := range blocked {
		if b.Overlaps(startAt, windowEnd) {
			return false
		}
	}

	return true
}
