package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avkuzn/Salon-BookingBot/pkg/types"
)

// Ключи настроек в таблице settings
const (
	SettingSlotStepMin       = "slot_step_min"
	SettingMinLeadTimeMin    = "min_lead_time_min"
	SettingWorkStart         = "work_start"
	SettingWorkEnd           = "work_end"
	SettingWorkDays          = "work_days"
	SettingHoldTimeoutMin    = "hold_timeout_min"
	SettingBookingHorizonDay = "booking_horizon_days"
)

// ErrInvalidSettings возвращается при некорректных настройках расписания.
// Показывается мастеру, не клиенту.
var ErrInvalidSettings = errors.New("domain: invalid booking settings")

// BookingSettings настройки расписания, прочитанные из хранилища.
// Калькулятор слотов и maintenance-проход читают их заново при каждом
// вызове: мастер может менять часы работы между проходами.
type BookingSettings struct {
	SlotStepMinutes    int
	MinLeadTimeMinutes int
	WorkStart          types.TimeString
	WorkEnd            types.TimeString
	WorkDays           map[time.Weekday]struct{}
	HoldTimeoutMinutes int
	BookingHorizonDays int
}

// Validate проверяет согласованность настроек
func (s *BookingSettings) Validate() error {
	if s.SlotStepMinutes < MinSlotStepMinutes || s.SlotStepMinutes > MaxSlotStepMinutes {
		return fmt.Errorf("%w: slot step %d out of range", ErrInvalidSettings, s.SlotStepMinutes)
	}
	if s.MinLeadTimeMinutes < 0 {
		return fmt.Errorf("%w: negative min lead time", ErrInvalidSettings)
	}
	if s.HoldTimeoutMinutes < 1 {
		return fmt.Errorf("%w: hold timeout must be at least 1 minute", ErrInvalidSettings)
	}
	if s.BookingHorizonDays < 1 {
		return fmt.Errorf("%w: booking horizon must be at least 1 day", ErrInvalidSettings)
	}
	if err := s.WorkStart.Validate(); err != nil {
		return fmt.Errorf("%w: work_start: %v", ErrInvalidSettings, err)
	}
	if err := s.WorkEnd.Validate(); err != nil {
		return fmt.Errorf("%w: work_end: %v", ErrInvalidSettings, err)
	}
	if !s.WorkStart.IsBefore(s.WorkEnd) {
		return fmt.Errorf("%w: work_end %s is not after work_start %s", ErrInvalidSettings, s.WorkEnd, s.WorkStart)
	}
	if len(s.WorkDays) == 0 {
		return fmt.Errorf("%w: empty work days", ErrInvalidSettings)
	}
	return nil
}

// IsWorkDay проверяет, является ли день недели рабочим
func (s *BookingSettings) IsWorkDay(d time.Weekday) bool {
	_, ok := s.WorkDays[d]
	return ok
}

// HoldTimeout длительность удержания неподтвержденной заявки
func (s *BookingSettings) HoldTimeout() time.Duration {
	return time.Duration(s.HoldTimeoutMinutes) * time.Minute
}

// MinLeadTime минимальный интервал до начала слота
func (s *BookingSettings) MinLeadTime() time.Duration {
	return time.Duration(s.MinLeadTimeMinutes) * time.Minute
}

// ParseWorkDays разбирает строку рабочих дней вида "0,1,2,3,4".
// Нумерация в хранилище: 0 = понедельник ... 6 = воскресенье
// (унаследована от исходных данных); конвертируется в time.Weekday.
func ParseWorkDays(raw string) (map[time.Weekday]struct{}, error) {
	days := make(map[time.Weekday]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("%w: work day %q", ErrInvalidSettings, part)
		}
		days[time.Weekday((n+1)%7)] = struct{}{}
	}
	return days, nil
}

// FormatWorkDays сериализует набор рабочих дней обратно в строку "0,1,..."
func FormatWorkDays(days map[time.Weekday]struct{}) string {
	parts := make([]string, 0, len(days))
	for n := 0; n <= 6; n++ {
		wd := time.Weekday((n + 1) % 7)
		if _, ok := days[wd]; ok {
			parts = append(parts, strconv.Itoa(n))
		}
	}
	return strings.Join(parts, ",")
}
