package service

type ErrorCode string

const (
	ErrorCodeInvalidInput           ErrorCode = "INVALID_INPUT"
	ErrorCodeAllocationFailed       ErrorCode = "ALLOCATION_FAILED"
	ErrorCodePartialRegistration    ErrorCode = "PARTIAL_REGISTRATION"
	ErrorCodeDuplicatePayment       ErrorCode = "DUPLICATE_PAYMENT"
	ErrorCodeNotFound               ErrorCode = "NOT_FOUND"
	ErrorCodeInvalidTransition      ErrorCode = "INVALID_TRANSITION"
	ErrorCodeAccommodationAssigned  ErrorCode = "ACCOMMODATION_ASSIGNED"
	ErrorCodeRegistrationIncomplete ErrorCode = "REGISTRATION_INCOMPLETE"
	ErrorCodeUnavailable            ErrorCode = "UNAVAILABLE"
	ErrorCodeUnauthorized           ErrorCode = "UNAUTHORIZED"
)

// Kind is the transport independent outcome class of an error.
type Kind string

const (
	KindOK           Kind = "OK"
	KindNotFound     Kind = "NotFound"
	KindInvalidInput Kind = "InvalidInput"
	KindConflict     Kind = "Conflict"
	KindUnavailable  Kind = "Unavailable"
	KindUnauthorized Kind = "Unauthorized"
)

type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Kind() Kind {
	if e == nil {
		return KindOK
	}

	switch e.Code {
	case ErrorCodeInvalidInput:
		return KindInvalidInput
	case ErrorCodeNotFound:
		return KindNotFound
	case ErrorCodeDuplicatePayment, ErrorCodeInvalidTransition, ErrorCodeAccommodationAssigned, ErrorCodeRegistrationIncomplete:
		return KindConflict
	case ErrorCodeUnauthorized:
		return KindUnauthorized
	default:
		return KindUnavailable
	}
}
