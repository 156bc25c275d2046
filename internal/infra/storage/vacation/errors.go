package vacation

import "errors"

var (
	// ErrVacationNotFound возвращается, когда отпуск не найден
	ErrVacationNotFound = errors.New("vacation.repository: vacation not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("vacation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("vacation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("vacation.repository: failed to scan row")
)
