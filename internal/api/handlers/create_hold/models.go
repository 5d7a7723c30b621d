package create_hold

import (
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/domain"
	createHold "github.com/avkuzn/Salon-BookingBot/internal/usecase/create_hold"
	"github.com/avkuzn/Salon-BookingBot/pkg/types"
)

// CreateHoldRequest HTTP request model
type CreateHoldRequest struct {
	ChatID      int64   `json:"chatId"`
	ServiceID   int64   `json:"serviceId"`
	Date        string  `json:"date"`      // "2026-09-15"
	StartTime   string  `json:"startTime"` // "11:30"
	Comment     *string `json:"comment,omitempty"`
	ClientPhone *string `json:"clientPhone,omitempty"`
}

// HoldResponse HTTP response model
type HoldResponse struct {
	ID              int64   `json:"id"`
	ChatID          int64   `json:"chatId"`
	ServiceID       int64   `json:"serviceId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	StartAt         string  `json:"startAt"`
	EndAt           string  `json:"endAt"`
	Status          string  `json:"status"`
	HoldExpiresAt   string  `json:"holdExpiresAt"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	DurationMinutes int     `json:"durationMinutes"`
	BufferMinutes   int     `json:"bufferMinutes"`
	Comment         *string `json:"comment,omitempty"`
	ClientPhone     *string `json:"clientPhone,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateHoldRequest) ToUseCaseRequest(loc *time.Location) (*createHold.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.Date, loc)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createHold.Request{
		ChatID:      r.ChatID,
		ServiceID:   r.ServiceID,
		Date:        date,
		StartTime:   startTime,
		Comment:     r.Comment,
		ClientPhone: r.ClientPhone,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createHold.Response) *HoldResponse {
	return &HoldResponse{
		ID:              resp.ID,
		ChatID:          resp.ChatID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		StartAt:         resp.StartAt.Format(time.RFC3339),
		EndAt:           resp.EndAt.Format(time.RFC3339),
		Status:          resp.Status,
		HoldExpiresAt:   resp.HoldExpiresAt.Format(time.RFC3339),
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		DurationMinutes: resp.DurationMinutes,
		BufferMinutes:   resp.BufferMinutes,
		Comment:         resp.Comment,
		ClientPhone:     resp.ClientPhone,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
