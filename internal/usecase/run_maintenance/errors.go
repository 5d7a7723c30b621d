package run_maintenance

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("run_maintenance: internal error")
)
