package main

import (
	"errors"

	"compassai/internal/app/account"
	"compassai/internal/domain"
	"compassai/internal/infra/api"
	"compassai/internal/ui"
)

// Exit codes.
const (
	exitFailure         = 1
	exitInvalidInput    = 2
	exitUnauthenticated = 3
)

type exitError struct {
	code    int
	message string
	fields  domain.FieldErrors
	silent  bool
}

func (e exitError) Error() string {
	return e.message
}

func exitSilent(code int) error {
	return exitError{code: code, silent: true}
}

// asExitError maps a command error to its exit code and displayed text.
func asExitError(err error) exitError {
	var exitErr exitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	code := exitFailure
	switch {
	case account.IsSignedOut(err):
		code = exitUnauthenticated
	case isRequestFailure(err):
		code = exitFailure
	case errors.Is(err, domain.ErrValidation):
		code = exitInvalidInput
	default:
		if c, ok := domain.CodeFrom(err); ok && c == domain.CodeInvalidArgument {
			code = exitInvalidInput
		}
	}
	message := ui.MapError(err, "")
	if message == "" {
		message = err.Error()
	}
	return exitError{code: code, message: message, fields: account.FieldsOf(err)}
}

// isRequestFailure reports whether err came back from the backend, even when
// it is shown on a form field.
func isRequestFailure(err error) bool {
	_, ok := api.AsStatusError(err)
	return ok
}
