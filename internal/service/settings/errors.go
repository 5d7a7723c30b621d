package settings

import "errors"

var (
	// ErrUnknownKey возвращается при попытке изменить неизвестный ключ
	ErrUnknownKey = errors.New("unknown setting key")

	// ErrInvalidValue возвращается, когда новое значение нарушает инварианты расписания
	ErrInvalidValue = errors.New("invalid setting value")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
