// Package apperrors defines the error kinds the API can report, their HTTP
// status mapping, and the JSON envelope they are written as.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error kind.
type Code string

const (
	CodeDuplicateEmail     Code = "DUPLICATE_EMAIL"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeNoToken            Code = "NO_TOKEN"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeForbidden          Code = "FORBIDDEN"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// AppError is the single error type crossing the HTTP boundary.
type AppError struct {
	Code       Code           `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	// Cause is logged but never serialized.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func New(code Code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// DuplicateEmail is reported as 400, matching the public API contract.
func DuplicateEmail() *AppError {
	return New(CodeDuplicateEmail, "A user with this email already exists.", http.StatusBadRequest)
}

// InvalidCredentials covers both an unknown email and a wrong password.
func InvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "Invalid email or password.", http.StatusUnauthorized)
}

func NoToken() *AppError {
	return New(CodeNoToken, "Not authorized, no token.", http.StatusUnauthorized)
}

func InvalidToken() *AppError {
	return New(CodeInvalidToken, "Not authorized, token is invalid.", http.StatusUnauthorized)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("The requested %s was not found.", resource), http.StatusNotFound).
		WithDetail("resource", resource)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func Forbidden() *AppError {
	return New(CodeForbidden, "You don't have permission to access this resource.", http.StatusForbidden)
}

func RateLimited() *AppError {
	return New(CodeRateLimited, "Too many requests. Please wait a moment and try again.", http.StatusTooManyRequests)
}

func Internal(cause error) *AppError {
	return New(CodeInternal, "An unexpected error occurred. Please try again later.", http.StatusInternalServerError).
		WithCause(cause)
}

// From returns err as an *AppError, wrapping anything unknown as Internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// CodeOf reports the kind of err, or "" when err is nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	return From(err).Code
}
