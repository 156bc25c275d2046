package get_available_slots

import (
	"fmt"
	"strings"

	"github.com/m04kA/barbershop-booking/internal/booking"
	"github.com/m04kA/barbershop-booking/internal/calendar"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.ServiceName) == "" {
		return fmt.Errorf("%w: service is required", booking.ErrInvalidInput)
	}
	if _, err := calendar.ParseDate(req.Date); err != nil {
		return fmt.Errorf("%w: %q", booking.ErrInvalidDateFormat, req.Date)
	}
	return nil
}
