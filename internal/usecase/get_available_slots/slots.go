package get_available_slots

import (
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
)

// occupiedInterval занятый интервал в UTC, полуоткрытый [Start, End)
type occupiedInterval struct {
	Start time.Time
	End   time.Time
}

// generateCandidateSlots генерирует кандидатов на день: от начала рабочего дня
// с шагом SlotStepMinutes, пока услуга целиком помещается до конца рабочего дня.
// Буфер после услуги может выходить за конец рабочего дня, это допустимо.
func generateCandidateSlots(
	settings *domain.BookingSettings,
	service *domain.Service,
	date time.Time,
	loc *time.Location,
) ([]Slot, error) {
	slots := make([]Slot, 0)
	current := settings.WorkStart

	for current.IsBefore(settings.WorkEnd) {
		slotEnd, err := current.AddMinutes(service.DurationMinutes)
		if err != nil {
			// Услуга не помещается до полуночи
			break
		}
		if slotEnd.IsAfter(settings.WorkEnd) {
			break
		}

		startAt, err := current.At(date, loc)
		if err != nil {
			return nil, err
		}

		slots = append(slots, Slot{
			StartTime:       current,
			StartAt:         startAt.UTC(),
			DurationMinutes: service.DurationMinutes,
		})

		current, err = current.AddMinutes(settings.SlotStepMinutes)
		if err != nil {
			break
		}
	}

	return slots, nil
}

// filterByLeadTime оставляет только слоты, начинающиеся не раньше now + minLead
func filterByLeadTime(slots []Slot, now time.Time, minLead time.Duration) []Slot {
	earliest := now.Add(minLead)

	result := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if !s.StartAt.Before(earliest) {
			result = append(result, s)
		}
	}

	return result
}

// collectOccupiedIntervals собирает занятые интервалы из активных записей
// (с учетом буфера) и заблокированных мастером интервалов
func collectOccupiedIntervals(
	appointments []*domain.Appointment,
	blocked []*domain.BlockedInterval,
	now time.Time,
) []occupiedInterval {
	intervals := make([]occupiedInterval, 0, len(appointments)+len(blocked))

	for _, a := range appointments {
		if !a.IsActiveAt(now) {
			continue
		}
		intervals = append(intervals, occupiedInterval{
			Start: a.StartAt,
			End:   a.OccupiedUntil(),
		})
	}

	for _, b := range blocked {
		intervals = append(intervals, occupiedInterval{
			Start: b.StartAt,
			End:   b.EndAt,
		})
	}

	return intervals
}

// filterByOccupied оставляет только слоты, чье занятое окно
// [start, start + duration + buffer) не пересекает ни один занятый интервал
func filterByOccupied(slots []Slot, service *domain.Service, intervals []occupiedInterval) []Slot {
	window := time.Duration(service.DurationMinutes+service.BufferMinutes) * time.Minute

	result := make([]Slot, 0, len(slots))
	for _, s := range slots {
		windowEnd := s.StartAt.Add(window)

		free := true
		for _, iv := range intervals {
			if domain.Overlaps(s.StartAt, windowEnd, iv.Start, iv.End) {
				free = false
				break
			}
		}

		if free {
			result = append(result, s)
		}
	}

	return result
}

// dayBounds возвращает границы рабочего дня в UTC для указанной даты
func dayBounds(settings *domain.BookingSettings, date time.Time, loc *time.Location) (time.Time, time.Time, error) {
	start, err := settings.WorkStart.At(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end, err := settings.WorkEnd.At(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start.UTC(), end.UTC(), nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня в таймзоне салона
func isDateInPast(date, now time.Time, loc *time.Location) bool {
	nowLocal := now.In(loc)
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	todayOnly := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, loc)
	return dateOnly.Before(todayOnly)
}
