package settings

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/Masterminds/squirrel"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	"github.com/avkuzn/Salon-BookingBot/pkg/psqlbuilder"
	"github.com/avkuzn/Salon-BookingBot/pkg/txmanager"
	"github.com/avkuzn/Salon-BookingBot/pkg/types"
)

// Repository key-value хранилище настроек расписания.
// Значения читаются заново при каждом обращении: мастер может менять
// настройки между вызовами, кэширование здесь запрещено намеренно.
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetString возвращает строковое значение ключа или def, если ключа нет
func (r *Repository) GetString(ctx context.Context, key, def string) (string, error) {
	executor := txmanager.Executor(ctx, r.db)

	query, args, err := psqlbuilder.Select("value").
		From("settings").
		Where(squirrel.Eq{"key": key}).
		ToSql()

	if err != nil {
		return "", fmt.Errorf("%w: GetString - build select query: %w", ErrBuildQuery, err)
	}

	var value string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&value)
	if err == sql.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: GetString - execute query: %w", ErrExecQuery, err)
	}

	return value, nil
}

// GetInt возвращает целочисленное значение ключа или def, если ключа нет
func (r *Repository) GetInt(ctx context.Context, key string, def int) (int, error) {
	raw, err := r.GetString(ctx, key, strconv.Itoa(def))
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: GetInt - key %q value %q: %w", ErrInvalidValue, key, raw, err)
	}

	return value, nil
}

// Set записывает значение ключа (insert или update)
func (r *Repository) Set(ctx context.Context, key, value string) error {
	executor := txmanager.Executor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("settings").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Set - build upsert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Set - execute upsert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetBookingSettings собирает настройки расписания целиком, подставляя
// значения по умолчанию для отсутствующих ключей. Возвращает
// domain.ErrInvalidSettings, если сохраненные значения некорректны.
func (r *Repository) GetBookingSettings(ctx context.Context) (*domain.BookingSettings, error) {
	slotStep, err := r.GetInt(ctx, domain.SettingSlotStepMin, domain.DefaultSlotStepMinutes)
	if err != nil {
		return nil, err
	}
	minLead, err := r.GetInt(ctx, domain.SettingMinLeadTimeMin, domain.DefaultMinLeadTimeMinutes)
	if err != nil {
		return nil, err
	}
	holdTimeout, err := r.GetInt(ctx, domain.SettingHoldTimeoutMin, domain.DefaultHoldTimeoutMinutes)
	if err != nil {
		return nil, err
	}
	horizon, err := r.GetInt(ctx, domain.SettingBookingHorizonDay, domain.DefaultBookingHorizonDays)
	if err != nil {
		return nil, err
	}

	workStartRaw, err := r.GetString(ctx, domain.SettingWorkStart, domain.DefaultWorkStart)
	if err != nil {
		return nil, err
	}
	workEndRaw, err := r.GetString(ctx, domain.SettingWorkEnd, domain.DefaultWorkEnd)
	if err != nil {
		return nil, err
	}
	workDaysRaw, err := r.GetString(ctx, domain.SettingWorkDays, domain.DefaultWorkDays)
	if err != nil {
		return nil, err
	}

	workStart, err := types.NewTimeStringFromString(workStartRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: work_start %q: %v", domain.ErrInvalidSettings, workStartRaw, err)
	}
	workEnd, err := types.NewTimeStringFromString(workEndRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: work_end %q: %v", domain.ErrInvalidSettings, workEndRaw, err)
	}
	workDays, err := domain.ParseWorkDays(workDaysRaw)
	if err != nil {
		return nil, err
	}

	s := &domain.BookingSettings{
		SlotStepMinutes:    slotStep,
		MinLeadTimeMinutes: minLead,
		WorkStart:          workStart,
		WorkEnd:            workEnd,
		WorkDays:           workDays,
		HoldTimeoutMinutes: holdTimeout,
		BookingHorizonDays: horizon,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}
