package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidArgument  ErrorCode = "INVALID_ARGUMENT"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeUnavailable      ErrorCode = "UNAVAILABLE"
	CodeFailedPrecond    ErrorCode = "FAILED_PRECONDITION"
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	CodeUnauthenticated  ErrorCode = "UNAUTHENTICATED"
	CodeInternal         ErrorCode = "INTERNAL"
	CodeCanceled         ErrorCode = "CANCELED"
	CodeDeadlineExceeded ErrorCode = "DEADLINE_EXCEEDED"
	CodeDecode           ErrorCode = "DECODE"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrToolNotFound   = errors.New("tool not found")
	ErrNotSignedIn    = errors.New("not signed in")
	ErrPermission     = errors.New("permission denied")
	ErrValidation     = errors.New("validation failed")
	ErrStaleResult    = errors.New("stale result")
	ErrClosed         = errors.New("closed")
)

type Error struct {
	Code      ErrorCode
	Op        string
	Message   string
	Cause     error
	Retryable bool
	Meta      map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		if msg == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op != "" || op == "" {
			return existing
		}
		return &Error{
			Code:      existing.Code,
			Op:        op,
			Message:   existing.Message,
			Cause:     existing.Cause,
			Retryable: existing.Retryable,
			Meta:      existing.Meta,
		}
	}
	return E(code, op, "", err)
}

// Message returns the user-facing text of err: the Message of a domain error
// when set, otherwise err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return err.Error()
}

func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code, true
	}
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrValidation):
		return CodeInvalidArgument, true
	case errors.Is(err, ErrToolNotFound):
		return CodeNotFound, true
	case errors.Is(err, ErrNotSignedIn):
		return CodeUnauthenticated, true
	case errors.Is(err, ErrPermission):
		return CodePermissionDenied, true
	case errors.Is(err, ErrStaleResult), errors.Is(err, ErrClosed):
		return CodeCanceled, true
	default:
		return "", false
	}
}

// CodeForStatus maps an HTTP status code from the backend to an ErrorCode.
func CodeForStatus(status int) ErrorCode {
	switch {
	case status == 400 || status == 422:
		return CodeInvalidArgument
	case status == 401:
		return CodeUnauthenticated
	case status == 403:
		return CodePermissionDenied
	case status == 404:
		return CodeNotFound
	case status == 408:
		return CodeDeadlineExceeded
	case status == 409:
		return CodeFailedPrecond
	case status >= 500:
		return CodeUnavailable
	default:
		return CodeInternal
	}
}
