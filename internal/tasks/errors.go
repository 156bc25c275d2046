package tasks

import "errors"

var (
	// ErrInvalidTask возвращается при пустом имени задачи или неверном payload
	ErrInvalidTask = errors.New("tasks: invalid task")

	// ErrNoHandler возвращается, когда для задачи не зарегистрирован обработчик
	ErrNoHandler = errors.New("tasks: no handler registered")

	// ErrInternal возвращается при внутренних ошибках очереди
	ErrInternal = errors.New("tasks: internal error")
)
