package create_appointment

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/barbershop-booking/internal/booking"
	"github.com/m04kA/barbershop-booking/internal/domain"
)

var validate = validator.New()

// validateRequest проверяет обязательные поля до проверки слота
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", booking.ErrInvalidInput)
	}
	if len([]rune(req.CustomerName)) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name is too long", booking.ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerEmail) == "" {
		return fmt.Errorf("%w: customer email is required", booking.ErrInvalidInput)
	}
	if err := validate.Var(strings.TrimSpace(req.CustomerEmail), "email"); err != nil {
		return fmt.Errorf("%w: invalid customer email: %v", booking.ErrInvalidInput, err)
	}

	if strings.TrimSpace(req.ServiceName) == "" {
		return fmt.Errorf("%w: service is required", booking.ErrInvalidInput)
	}
	if len([]rune(req.ServiceName)) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: service name is too long", booking.ErrInvalidInput)
	}

	if !req.Identity.IsAuthenticated() && (req.CustomerPhone == nil || strings.TrimSpace(*req.CustomerPhone) == "") {
		return fmt.Errorf("%w: phone is required for anonymous booking", booking.ErrInvalidInput)
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", booking.ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
