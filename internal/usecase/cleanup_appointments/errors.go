package cleanup_appointments

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cleanup_appointments: internal error")
)
