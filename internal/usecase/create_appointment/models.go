package create_appointment

import (
	"time"

	"github.com/m04kA/barbershop-booking/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	Identity         domain.Identity // пустой UserID - анонимная запись
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    *string // обязателен для анонимной записи
	ServiceName      string
	Date             string // YYYY-MM-DD
	Time             string // H:MM или HH:MM
	DurationOverride *int   // явная длительность в минутах (опционально)
	Notes            *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID              string
	UserID          string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   *string
	ServiceName     string
	Date            string
	Time            string
	StartsAtMs      int64
	DurationMinutes int
	Price           int
	Status          string
	Notes           *string
	CreatedAt       time.Time
}
