package create_hold

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_hold: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена мастером
	ErrServiceInactive = errors.New("create_hold: service is not available for booking")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("create_hold: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = errors.New("create_hold: date is too far in the future")

	// ErrNotWorkDay возвращается, когда выбранный день нерабочий
	ErrNotWorkDay = errors.New("create_hold: salon is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает с сеткой слотов
	// или услуга не помещается в рабочие часы
	ErrInvalidTimeSlot = errors.New("create_hold: invalid time slot")

	// ErrTooLateToBook возвращается при нарушении минимального времени до записи
	ErrTooLateToBook = errors.New("create_hold: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда выбранный слот уже занят
	ErrSlotNotAvailable = errors.New("create_hold: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_hold: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_hold: internal error")
)
