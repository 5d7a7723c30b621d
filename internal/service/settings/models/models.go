package models

import "github.com/avkuzn/Salon-BookingBot/internal/domain"

// SettingsResponse текущие настройки расписания
type SettingsResponse struct {
	SlotStepMinutes    int    `json:"slot_step_minutes"`
	MinLeadTimeMinutes int    `json:"min_lead_time_minutes"`
	WorkStart          string `json:"work_start"`
	WorkEnd            string `json:"work_end"`
	WorkDays           string `json:"work_days"`
	HoldTimeoutMinutes int    `json:"hold_timeout_minutes"`
	BookingHorizonDays int    `json:"booking_horizon_days"`
}

// FromDomainSettings конвертирует доменную модель в response
func FromDomainSettings(s *domain.BookingSettings) *SettingsResponse {
	return &SettingsResponse{
		SlotStepMinutes:    s.SlotStepMinutes,
		MinLeadTimeMinutes: s.MinLeadTimeMinutes,
		WorkStart:          s.WorkStart.String(),
		WorkEnd:            s.WorkEnd.String(),
		WorkDays:           domain.FormatWorkDays(s.WorkDays),
		HoldTimeoutMinutes: s.HoldTimeoutMinutes,
		BookingHorizonDays: s.BookingHorizonDays,
	}
}
