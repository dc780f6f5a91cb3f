package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sr2706/parakram-backend/internal/model"
)

// NewValidator returns a validator that also understands the accommodation_type tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("accommodation_type", func(fl validator.FieldLevel) bool {
		return model.AccommodationType(fl.Field().String()).Valid()
	})
	return v
}

// SportLimits resolves the maximum team size for a sport.
type SportLimits interface {
	Limit(sport string) int
}

// validationMessage flattens validator errors into a single readable line.
func validationMessage(prefix string, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return prefix + ": " + err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return prefix + ": " + strings.Join(parts, ", ")
}
