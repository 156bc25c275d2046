package handlers

import (
	"github.com/go-playground/validator/v10"

	"github.com/m04kA/barbershop-booking/internal/calendar"
	"github.com/m04kA/barbershop-booking/pkg/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("isodate", validateISODate)
	_ = validate.RegisterValidation("hhmm", validateHHMM)
}

// ValidateStruct проверяет теги validate у DTO
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := calendar.ParseDate(fl.Field().String())
	return err == nil
}

func validateHHMM(fl validator.FieldLevel) bool {
	_, err := types.ParseMinutes(fl.Field().String())
	return err == nil
}
