package mailer

// Message письмо для отправки
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// sendResponse успешный ответ провайдера
type sendResponse struct {
	ID string `json:"id"`
}

// ErrorResponse модель ошибки провайдера
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}
