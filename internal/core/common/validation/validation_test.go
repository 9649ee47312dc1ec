package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errors "github.com/staffsync/staffsync-backend/internal"
)

func TestValidatorAggregatesFirstFailurePerField(t *testing.T) {
	v := NewValidator()
	v.Field("title", "").Required().MinLength(3)
	v.Field("priority", "urgent").OneOf("low", "medium", "high")
	v.Field("score", 140).IntRange(0, 100)

	err := v.Validate()
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, err.Type)

	details, ok := err.Details.(errors.ValidationErrors)
	require.True(t, ok)
	require.Len(t, details.Errors, 3)
	assert.Equal(t, "title", details.Errors[0].Field)
	assert.Equal(t, "title is required", details.Errors[0].Message)
	assert.Equal(t, string(errors.ErrCodeInvalidEnum), details.Errors[1].Code)
	assert.Equal(t, "score", details.Errors[2].Field)
}

func TestOneOfSkipsEmptyValues(t *testing.T) {
	v := NewValidator()
	v.Field("status", "").OneOf("pending", "completed")
	assert.Nil(t, v.Validate())
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"short1", false},
		{"longenough", false},
		{"12345678", false},
		{"password1", true},
	}
	for _, tc := range cases {
		err := ValidatePassword(tc.password)
		if tc.ok {
			assert.Nil(t, err, tc.password)
		} else {
			assert.NotNil(t, err, tc.password)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	assert.Nil(t, ValidateEmail("jane@example.com"))
	assert.NotNil(t, ValidateEmail("Jane <jane@example.com>"))
	assert.NotNil(t, ValidateEmail("not-an-email"))
}

func TestPhone(t *testing.T) {
	v := NewValidator()
	v.Field("phone", "+1 555-0100").Phone()
	assert.Nil(t, v.Validate())

	v = NewValidator()
	v.Field("phone", "call me").Phone()
	assert.NotNil(t, v.Validate())
}

func TestFormatValidators(t *testing.T) {
	v := NewValidator()
	v.Field("employee_id", "not-a-uuid").UUID()
	v.Field("date", "2024-13-01").Date()
	v.Field("check_in", "9am").Clock()
	v.Field("check_out", "18:00").Clock()

	err := v.Validate()
	require.NotNil(t, err)
	details := err.Details.(errors.ValidationErrors)
	require.Len(t, details.Errors, 3)
	assert.Equal(t, string(errors.ErrCodeInvalidID), details.Errors[0].Code)
	assert.Equal(t, string(errors.ErrCodeInvalidDate), details.Errors[1].Code)
	assert.Equal(t, string(errors.ErrCodeInvalidTime), details.Errors[2].Code)
}
