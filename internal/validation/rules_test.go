package validation

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(validation.NewError("validation_not_blank", "must not be blank"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestEmail(t *testing.T) {
	assert.NoError(t, validation.Validate("ops@cuacalab.id", Email))
	assert.Error(t, validation.Validate("not-an-email", Email))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("weather-portal", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
}

func TestISODate(t *testing.T) {
	assert.NoError(t, validation.Validate("2025-06-01", ISODate))
	assert.Error(t, validation.Validate("01-06-2025", ISODate))
	assert.Error(t, validation.Validate("2025-13-40", ISODate))
}
