package settings

import "errors"

var (
	// ErrSettingNotFound возвращается, когда ключ отсутствует в хранилище
	ErrSettingNotFound = errors.New("settings.repository: setting not found")

	// ErrInvalidValue возвращается, когда значение не парсится в нужный тип
	ErrInvalidValue = errors.New("settings.repository: invalid setting value")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("settings.repository: failed to execute query")
)
