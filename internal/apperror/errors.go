package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports user-correctable input problems.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// VerificationError means an inbound event could not be authenticated.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("webhook verification failed: %v", e.Err)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// PaymentError carries the processor's rejection message.
type PaymentError struct {
	Err error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment processor: %v", e.Err)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// StoreError is a persistence failure. It fails the webhook delivery so the
// processor redelivers.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// HTTPStatus maps an error from the taxonomy to a response code and the
// message that is safe to return to the caller.
func HTTPStatus(err error) (int, string) {
	var (
		validationErr   *ValidationError
		verificationErr *VerificationError
		paymentErr      *PaymentError
		storeErr        *StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.As(err, &verificationErr):
		return http.StatusBadRequest, "invalid signature"
	case errors.As(err, &paymentErr):
		return http.StatusInternalServerError, paymentErr.Error()
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError, "internal error"
	}

	return http.StatusInternalServerError, "internal error"
}

// FromValidator reports the first failing field of a validator error.
func FromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewValidationError("", err.Error())
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return NewValidationError(fe.Field(), "is required")
	case "email":
		return NewValidationError(fe.Field(), "must be a valid email address")
	default:
		return NewValidationError(fe.Field(), fmt.Sprintf("failed %q validation", fe.Tag()))
	}
}
