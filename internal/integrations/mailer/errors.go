package mailer

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mailer client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("mailer client: invalid response")

	// ErrRejected возвращается, когда провайдер отклонил письмо (non-2xx)
	ErrRejected = errors.New("mailer client: message rejected")

	// ErrNotConfigured возвращается, когда не задан API-ключ
	ErrNotConfigured = errors.New("mailer client: not configured")
)
