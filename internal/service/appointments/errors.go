package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена или не видна вызывающему
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("appointments: access denied")

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = errors.New("appointments: appointment already cancelled")

	// ErrCancellationWindowClosed возвращается, когда до начала осталось меньше 24 часов
	ErrCancellationWindowClosed = errors.New("appointments: online cancellation is possible only up to 24 hours before the appointment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
