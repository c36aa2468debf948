package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldErrors_FieldsRootFirst(t *testing.T) {
	fields := FieldErrors{"email": "bad", RootField: "failed", "age": "low"}
	assert.Equal(t, []string{RootField, "age", "email"}, fields.Fields())

	fields.Set("email", "ignored")
	assert.Equal(t, "bad", fields["email"])
}

func TestValidation(t *testing.T) {
	assert.NoError(t, Validation(FieldErrors{}))

	err := Validation(FieldErrors{"email": "bad"})
	assert.ErrorIs(t, err, ErrValidation)
	code, ok := CodeFrom(err)
	assert.True(t, ok)
	assert.Equal(t, CodeInvalidArgument, code)
}

func TestRejected_UnwrapsToRequestError(t *testing.T) {
	requestErr := E(CodeUnavailable, "login", "서버 오류", nil)
	err := E(CodeUnavailable, "login", "서버 오류", Rejected(requestErr, FieldErrors{RootField: "서버 오류"}))

	assert.NotErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, requestErr)

	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.Equal(t, "서버 오류", validation.Fields[RootField])
}
