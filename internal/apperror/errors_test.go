package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "validation",
			err:      NewValidationError("customerEmail", "is required"),
			wantCode: http.StatusBadRequest,
			wantMsg:  "customerEmail: is required",
		},
		{
			name:     "wrapped verification",
			err:      fmt.Errorf("webhook: %w", &VerificationError{Err: errors.New("bad sig")}),
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid signature",
		},
		{
			name:     "payment",
			err:      &PaymentError{Err: errors.New("No such price: 'price_x'")},
			wantCode: http.StatusInternalServerError,
			wantMsg:  "payment processor: No such price: 'price_x'",
		},
		{
			name:     "store hides details",
			err:      &StoreError{Op: "upsert", Err: errors.New("dial tcp: refused")},
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal error",
		},
		{
			name:     "unknown",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := HTTPStatus(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestStoreErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := fmt.Errorf("handle: %w", &StoreError{Op: "upsert", Err: cause})
	assert.ErrorIs(t, err, cause)
}

func TestFromValidator(t *testing.T) {
	type input struct {
		Email string `validate:"required,email"`
		Price string `validate:"required"`
	}
	v := validator.New()

	err := FromValidator(v.Struct(&input{Email: "nope", Price: "p"}))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Email", validationErr.Field)
	assert.Equal(t, "must be a valid email address", validationErr.Message)

	err = FromValidator(v.Struct(&input{Email: "a@x.com"}))
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Price: is required", validationErr.Error())
}
