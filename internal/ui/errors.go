package ui

import (
	"errors"
	"fmt"
	"strings"

	"compassai/internal/domain"
	"compassai/internal/infra/api"
	"compassai/internal/ui/events"
)

// UIError represents a display-friendly error with a code
type UIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *UIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for frontend handling
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeNotSignedIn        = "NOT_SIGNED_IN"
	ErrCodePermissionDenied   = "PERMISSION_DENIED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeToolNotFound       = "TOOL_NOT_FOUND"
	ErrCodeUnavailable        = "BACKEND_UNAVAILABLE"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeOperationCancelled = "OPERATION_CANCELLED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// SignInRequiredText is shown on pages that need a session.
const SignInRequiredText = "로그인 후 이용할 수 있는 페이지입니다."

// LoadingText is shown while a listing request is in flight.
const LoadingText = "불러오는 중…"

// MapDomainError converts domain errors to UIError
func MapDomainError(err error) *UIError {
	if err == nil {
		return nil
	}

	message := MapError(err, "")
	if errors.Is(err, domain.ErrValidation) {
		return NewUIError(ErrCodeValidation, message)
	}
	if errors.Is(err, domain.ErrToolNotFound) {
		return NewUIError(ErrCodeToolNotFound, message)
	}

	code, _ := domain.CodeFrom(err)
	switch code {
	case domain.CodeInvalidArgument:
		return NewUIError(ErrCodeInvalidRequest, message)
	case domain.CodeUnauthenticated:
		return NewUIError(ErrCodeNotSignedIn, message)
	case domain.CodePermissionDenied:
		return NewUIError(ErrCodePermissionDenied, message)
	case domain.CodeNotFound:
		return NewUIError(ErrCodeNotFound, message)
	case domain.CodeUnavailable:
		return NewUIErrorWithDetails(ErrCodeUnavailable, message, err.Error())
	case domain.CodeDeadlineExceeded:
		return NewUIErrorWithDetails(ErrCodeTimeout, message, err.Error())
	case domain.CodeCanceled:
		return NewUIError(ErrCodeOperationCancelled, message)
	default:
		return NewUIErrorWithDetails(ErrCodeInternal, message, err.Error())
	}
}

// MapError returns the text a page shows for err. Backend rejections show
// the response body verbatim; fallback replaces an empty body or a
// message-less error. Validation errors show their first message.
func MapError(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		for _, field := range validation.Fields.Fields() {
			return validation.Fields[field]
		}
	}
	if statusErr, ok := api.AsStatusError(err); ok {
		if strings.TrimSpace(statusErr.Body) == "" && fallback != "" {
			return fallback
		}
		return statusErr.Error()
	}
	message := strings.TrimSpace(domain.Message(err))
	if message == "" {
		return fallback
	}
	return message
}

// Report publishes err on the hub's error bus and returns the text MapError
// gives for it. A nil hub only maps.
func Report(hub *events.Hub, err error, fallback string) string {
	text := MapError(err, fallback)
	if uiErr := MapDomainError(err); uiErr != nil {
		hub.EmitError(uiErr.Code, text, uiErr.Details)
	}
	return text
}

// ErrorBanner formats a listing error as the Home view shows it.
func ErrorBanner(text string) string {
	return "오류: " + text
}

// NewUIError creates a new UIError with code and message
func NewUIError(code, message string) *UIError {
	return &UIError{
		Code:    code,
		Message: message,
	}
}

// NewUIErrorWithDetails creates a new UIError with code, message, and details
func NewUIErrorWithDetails(code, message, details string) *UIError {
	return &UIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
