package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// seatNumberRgx matches seat labels like A1, B12 or AA3.
var seatNumberRgx = regexp.MustCompile(`^[A-Z]{1,2}[0-9]{1,2}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_number", validateSeatNumber)

	return validator
}

func validateSeatNumber(fl validator.FieldLevel) bool {
	return seatNumberRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", err.Param())
	case "max":
		return fmt.Sprintf("must contain at most %s item(s)", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "seat_number":
		return "must be a seat label like A1 or B12"
	default:
		return "is invalid"
	}
}
