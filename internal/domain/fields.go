package domain

import (
	"sort"
	"strings"
)

// RootField keys the form-level message that is not tied to one input.
const RootField = "root"

// FieldErrors maps form field names to the message shown next to them.
type FieldErrors map[string]string

// Set records msg for field unless the field already has a message.
func (f FieldErrors) Set(field, msg string) {
	if _, ok := f[field]; ok {
		return
	}
	f[field] = msg
}

// Has reports whether field carries a message.
func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// Empty reports whether there are no messages.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Merge copies every message of other over f.
func (f FieldErrors) Merge(other FieldErrors) {
	for k, v := range other {
		f[k] = v
	}
}

// Fields returns field names in a stable order with root first.
func (f FieldErrors) Fields() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		if name == RootField {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if _, ok := f[RootField]; ok {
		names = append([]string{RootField}, names...)
	}
	return names
}

// ValidationError carries per-field messages. Client-side validation leaves
// Cause nil; a backend rejection shown on form fields keeps the failed
// request error as Cause and does not match ErrValidation.
type ValidationError struct {
	Fields FieldErrors
	Cause  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ErrValidation.Error()
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.Fields.Fields() {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrValidation
}

// Rejected attaches fields to a failed request. The result unwraps to err.
func Rejected(err error, fields FieldErrors) *ValidationError {
	return &ValidationError{Fields: fields, Cause: err}
}

// Validation returns nil when fields is empty, otherwise a *ValidationError.
func Validation(fields FieldErrors) error {
	if fields.Empty() {
		return nil
	}
	return &ValidationError{Fields: fields}
}
