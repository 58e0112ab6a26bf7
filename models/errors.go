// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"net/http"
)

// UnexpectedMessage is shown when a failure has no more specific classification.
const UnexpectedMessage = "An unexpected error occurred"

// ErrorKind classifies a failure for callers and for HTTP status mapping.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindUnauthorized
	KindInvalidInput
	KindNotFound
	KindForbidden
	KindConflict
	KindStorageFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindStorageFailure:
		return "storage_failure"
	default:
		return "unexpected"
	}
}

// HTTPStatus maps the kind to a response status code.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with a message safe to show to users.
// Err holds the underlying cause, if any, and is never shown.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func InvalidInput(msg string) *Error { return &Error{Kind: KindInvalidInput, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

// StorageFailure wraps a database error behind a user-facing message.
func StorageFailure(msg string, err error) *Error {
	return &Error{Kind: KindStorageFailure, Message: msg, Err: err}
}

// Unexpected wraps an unclassified error behind the generic message.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: UnexpectedMessage, Err: err}
}

// KindOf returns the kind of err, or KindUnexpected if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// MessageOf returns the user-facing message for err. Unclassified errors
// never leak their text.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return UnexpectedMessage
}

// ResultOf converts err into the {error} result shape.
func ResultOf(err error) Result {
	return Result{Error: MessageOf(err)}
}
