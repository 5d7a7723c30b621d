package models

import (
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
)

// AppointmentResponse модель записи для внешних слоев
type AppointmentResponse struct {
	ID            int64      `json:"id"`
	ChatID        int64      `json:"chat_id"`
	ServiceID     int64      `json:"service_id"`
	StartAt       time.Time  `json:"start_at"`
	EndAt         time.Time  `json:"end_at"`
	Status        string     `json:"status"`
	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty"`

	ServiceName     string  `json:"service_name"`
	ServicePrice    float64 `json:"service_price"`
	DurationMinutes int     `json:"duration_minutes"`
	BufferMinutes   int     `json:"buffer_minutes"`

	Comment     *string `json:"comment,omitempty"`
	ClientPhone *string `json:"client_phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// DecisionResponse результат решения мастера по заявке
type DecisionResponse struct {
	Appointment *AppointmentResponse `json:"appointment"`
	// ClientChatID чат клиента для уведомления о решении
	ClientChatID int64 `json:"client_chat_id"`
}

// FromDomainAppointment конвертирует доменную модель в response
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              a.ID,
		ChatID:          a.ChatID,
		ServiceID:       a.ServiceID,
		StartAt:         a.StartAt,
		EndAt:           a.EndAt,
		Status:          string(a.Status),
		HoldExpiresAt:   a.HoldExpiresAt,
		ServiceName:     a.ServiceName,
		ServicePrice:    a.ServicePrice,
		DurationMinutes: a.DurationMinutes,
		BufferMinutes:   a.BufferMinutes,
		Comment:         a.Comment,
		ClientPhone:     a.ClientPhone,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список доменных моделей в response
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	result := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		result.Appointments = append(result.Appointments, *FromDomainAppointment(a))
	}

	return result
}
