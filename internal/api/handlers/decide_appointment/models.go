package decide_appointment

import (
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/service/appointments/models"
)

// Допустимые решения мастера
const (
	DecisionConfirm = "confirm"
	DecisionReject  = "reject"
)

// DecideRequest HTTP request model
type DecideRequest struct {
	Decision string `json:"decision"` // "confirm" или "reject"
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID            int64   `json:"id"`
	ChatID        int64   `json:"chatId"`
	ServiceID     int64   `json:"serviceId"`
	StartAt       string  `json:"startAt"`
	EndAt         string  `json:"endAt"`
	Status        string  `json:"status"`
	ServiceName   string  `json:"serviceName"`
	ServicePrice  float64 `json:"servicePrice"`
	Comment       *string `json:"comment,omitempty"`
	ClientPhone   *string `json:"clientPhone,omitempty"`
	UpdatedAt     string  `json:"updatedAt"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(a *models.AppointmentResponse) *AppointmentResponse {
	return &AppointmentResponse{
		ID:           a.ID,
		ChatID:       a.ChatID,
		ServiceID:    a.ServiceID,
		StartAt:      a.StartAt.Format(time.RFC3339),
		EndAt:        a.EndAt.Format(time.RFC3339),
		Status:       a.Status,
		ServiceName:  a.ServiceName,
		ServicePrice: a.ServicePrice,
		Comment:      a.Comment,
		ClientPhone:  a.ClientPhone,
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
}
