package api

import (
	"errors"
	"fmt"
	"strings"

	"compassai/internal/domain"
)

// StatusError is a non-2xx response. Body is the raw response text, which the
// backend uses as a human-readable message.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Body) == "" {
		return domain.DefaultRequestFailedText
	}
	return e.Body
}

// String includes the status code for logs.
func (e *StatusError) String() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Error())
}

// AsStatusError extracts the *StatusError from err.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

// IsUnauthenticated reports whether err is a 401 from the backend.
func IsUnauthenticated(err error) bool {
	if statusErr, ok := AsStatusError(err); ok {
		return statusErr.Status == 401
	}
	code, ok := domain.CodeFrom(err)
	return ok && code == domain.CodeUnauthenticated
}
