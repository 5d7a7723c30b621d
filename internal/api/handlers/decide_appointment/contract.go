package decide_appointment

import (
	"context"

	"github.com/avkuzn/Salon-BookingBot/internal/service/appointments/models"
)

type AppointmentsService interface {
	Confirm(ctx context.Context, id int64) (*models.DecisionResponse, error)
	Reject(ctx context.Context, id int64) (*models.DecisionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
