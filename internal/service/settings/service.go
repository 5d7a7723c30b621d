package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	"github.com/avkuzn/Salon-BookingBot/internal/service/settings/models"
	"github.com/avkuzn/Salon-BookingBot/pkg/types"
)

// Service сервис настроек расписания для мастера
type Service struct {
	settingsRepo SettingsRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Get возвращает текущие настройки расписания
func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.settingsRepo.GetBookingSettings(ctx)
	if err != nil {
		s.logger.Error("Get: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: Get - failed to load settings: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(settings), nil
}

// Update меняет одну настройку. Новое значение сначала примеряется
// к текущим настройкам целиком: запись отклоняется, если результат
// нарушает инварианты расписания (например, work_start >= work_end).
// Уже существующие записи изменение настроек не трогает.
func (s *Service) Update(ctx context.Context, key, value string) (*models.SettingsResponse, error) {
	s.logger.Info("Update: setting %s=%s", key, value)

	var result *domain.BookingSettings

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.settingsRepo.GetBookingSettings(txCtx)
		if err != nil {
			return fmt.Errorf("%w: Update - failed to load settings: %v", ErrInternal, err)
		}

		if err := applyValue(current, key, value); err != nil {
			return err
		}

		if err := current.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}

		if err := s.settingsRepo.Set(txCtx, key, value); err != nil {
			return fmt.Errorf("%w: Update - failed to store setting: %v", ErrInternal, err)
		}

		result = current
		return nil
	})

	if err != nil {
		s.logger.Warn("Update: setting %s=%s rejected: %v", key, value, err)
		return nil, err
	}

	s.logger.Info("Update: setting %s=%s applied", key, value)
	return models.FromDomainSettings(result), nil
}

// applyValue примеряет сырое значение ключа к настройкам
func applyValue(s *domain.BookingSettings, key, value string) error {
	switch key {
	case domain.SettingSlotStepMin, domain.SettingMinLeadTimeMin,
		domain.SettingHoldTimeoutMin, domain.SettingBookingHorizonDay:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %v", ErrInvalidValue, key, err)
		}
		switch key {
		case domain.SettingSlotStepMin:
			s.SlotStepMinutes = n
		case domain.SettingMinLeadTimeMin:
			s.MinLeadTimeMinutes = n
		case domain.SettingHoldTimeoutMin:
			s.HoldTimeoutMinutes = n
		case domain.SettingBookingHorizonDay:
			s.BookingHorizonDays = n
		}

	case domain.SettingWorkStart, domain.SettingWorkEnd:
		t, err := types.NewTimeStringFromString(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be HH:MM: %v", ErrInvalidValue, key, err)
		}
		if key == domain.SettingWorkStart {
			s.WorkStart = t
		} else {
			s.WorkEnd = t
		}

	case domain.SettingWorkDays:
		days, err := domain.ParseWorkDays(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		s.WorkDays = days

	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	return nil
}
