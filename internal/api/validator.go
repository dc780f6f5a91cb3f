package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/sr2706/parakram-backend/internal/service"
)

type requestValidator struct {
	v *validator.Validate
}

func NewValidator() *requestValidator {
	return &requestValidator{v: service.NewValidator()}
}

func (r *requestValidator) Validate(i any) error {
	return r.v.Struct(i)
}
