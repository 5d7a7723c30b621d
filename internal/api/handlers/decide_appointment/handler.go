package decide_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avkuzn/Salon-BookingBot/internal/api/handlers"
	"github.com/avkuzn/Salon-BookingBot/internal/service/appointments"
	"github.com/avkuzn/Salon-BookingBot/internal/service/appointments/models"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDecision      = "решение должно быть confirm или reject"
	msgNotFound             = "запись не найдена"
	msgInvalidTransition    = "запись уже обработана"
	msgHoldExpired          = "время на подтверждение истекло"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/decision
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/decision - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req DecideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/decision - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var result *models.DecisionResponse
	switch req.Decision {
	case DecisionConfirm:
		result, err = h.service.Confirm(r.Context(), appointmentID)
	case DecisionReject:
		result, err = h.service.Reject(r.Context(), appointmentID)
	default:
		h.logger.Warn("PATCH /appointments/{id}/decision - Invalid decision: %s", req.Decision)
		handlers.RespondBadRequest(w, msgInvalidDecision)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/decision - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrHoldExpired):
			h.logger.Warn("PATCH /appointments/{id}/decision - Hold expired: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgHoldExpired)

		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("PATCH /appointments/{id}/decision - Invalid transition: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /appointments/{id}/decision - Failed: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/decision - Decision applied: appointment_id=%d, decision=%s",
		appointmentID, req.Decision)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result.Appointment))
}
