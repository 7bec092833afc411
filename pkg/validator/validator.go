package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	RegisterCustomValidations(validate)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidationMessage flattens validator errors into a per-field message like
// "radius_km: must satisfy radius_km", wrapped in e.ErrValidation so the
// handler layer maps it to a 400 with the offending field named.
func ValidationMessage(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return e.Wrap("validate", e.ErrValidation)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: must satisfy %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%s: %w", strings.Join(parts, "; "), e.ErrValidation)
}
