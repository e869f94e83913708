package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db/repositories"
	"riverbend/portal/internal/validator"
)

// ErrorKind classifies service failures for the HTTP edge.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindTooLarge     ErrorKind = "too_large"
	KindInternal     ErrorKind = "internal"
)

// ServiceError carries a user-facing message; Err keeps the detail for logs.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func Validation(message string, fields map[string]string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: message, Fields: fields}
}

func Unauthorized(message string) *ServiceError {
	return &ServiceError{Kind: KindUnauthorized, Message: message}
}

func NotFound(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: message, Err: err}
}

func Conflict(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: message, Err: err}
}

func TooLarge(message string) *ServiceError {
	return &ServiceError{Kind: KindTooLarge, Message: message}
}

func Internal(err error) *ServiceError {
	return &ServiceError{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf reports the kind of err, KindInternal for anything unclassified.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// asServiceError passes ServiceErrors through and wraps anything else as
// internal.
func asServiceError(err error) error {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return Internal(err)
}

// FromValidation converts a validator error into a validation ServiceError
// whose message names the offending fields.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var ve *validator.ValidationError
	if !errors.As(err, &ve) {
		return Validation(constants.MsgInvalidBody, nil)
	}

	fields := make([]string, 0, len(ve.Errors))
	for f := range ve.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return Validation("Missing or invalid fields: "+strings.Join(fields, ", "), ve.Errors)
}

// fromRepo maps repository sentinels onto service kinds.
func fromRepo(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return NotFound(notFound, err)
	case errors.Is(err, repositories.ErrDuplicate):
		return Conflict(constants.MsgUserExists, err)
	default:
		return Internal(err)
	}
}
