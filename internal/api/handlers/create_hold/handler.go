package create_hold

import (
	"errors"
	"net/http"
	"time"

	"github.com/avkuzn/Salon-BookingBot/internal/api/handlers"
	createHold "github.com/avkuzn/Salon-BookingBot/internal/usecase/create_hold"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для записи"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgInvalidDate        = "некорректная дата записи"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
	msgNotWorkDay         = "салон не работает в выбранную дату"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgTooLateToBook      = "слишком поздно для записи на этот слот"
)

type Handler struct {
	useCase  CreateHoldUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateHoldUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(h.location)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createHold.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: chat_id=%d, service_id=%d", req.ChatID, req.ServiceID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createHold.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createHold.ErrServiceInactive):
			h.logger.Warn("POST /appointments - Service inactive: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createHold.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid booking date: chat_id=%d", req.ChatID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createHold.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: chat_id=%d", req.ChatID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createHold.ErrNotWorkDay):
			h.logger.Warn("POST /appointments - Not a work day: chat_id=%d, date=%s", req.ChatID, req.Date)
			handlers.RespondBadRequest(w, msgNotWorkDay)

		case errors.Is(err, createHold.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: chat_id=%d, time=%s", req.ChatID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createHold.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: chat_id=%d, time=%s", req.ChatID, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createHold.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments - Failed to create hold: chat_id=%d, service_id=%d, error=%v",
				req.ChatID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Hold created: appointment_id=%d, chat_id=%d, service_id=%d",
		result.ID, req.ChatID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
