package vacations

import "errors"

var (
	// ErrVacationNotFound возвращается, когда отпуск не найден
	ErrVacationNotFound = errors.New("vacations: vacation not found")

	// ErrAccessDenied возвращается, когда пользователь не администратор
	ErrAccessDenied = errors.New("vacations: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("vacations: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("vacations: internal error")
)
