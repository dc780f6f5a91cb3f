package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Kind(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want Kind
	}{
		{code: ErrorCodeInvalidInput, want: KindInvalidInput},
		{code: ErrorCodeNotFound, want: KindNotFound},
		{code: ErrorCodeDuplicatePayment, want: KindConflict},
		{code: ErrorCodeInvalidTransition, want: KindConflict},
		{code: ErrorCodeAccommodationAssigned, want: KindConflict},
		{code: ErrorCodeRegistrationIncomplete, want: KindConflict},
		{code: ErrorCodeAllocationFailed, want: KindUnavailable},
		{code: ErrorCodePartialRegistration, want: KindUnavailable},
		{code: ErrorCodeUnavailable, want: KindUnavailable},
		{code: ErrorCodeUnauthorized, want: KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, NewError(tt.code, "x").Kind())
		})
	}

	var none *Error
	assert.Equal(t, KindOK, none.Kind())
}

func TestNewValidator_AccommodationType(t *testing.T) {
	v := NewValidator()

	type input struct {
		Type string `validate:"omitempty,accommodation_type"`
	}

	assert.NoError(t, v.Struct(input{}))
	assert.NoError(t, v.Struct(input{Type: "shared_room"}))
	assert.Error(t, v.Struct(input{Type: "suite"}))
}
