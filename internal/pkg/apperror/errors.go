package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest        ErrorCode = "BAD_REQUEST"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeUnavailable       ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimited       ErrorCode = "RATE_LIMITED"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation создаёт ошибку валидации входных данных.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// NotFound создаёт ошибку отсутствующей сущности.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// Forbidden создаёт ошибку нехватки прав.
func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message)
}

// InvalidTransition описывает запрещённый переход статуса from -> to для действия action.
func InvalidTransition(entity, action, from, to string) *AppError {
	return New(ErrCodeInvalidTransition,
		fmt.Sprintf("cannot %s %s: transition %s -> %s is not allowed", action, entity, from, to))
}

// Internal оборачивает неожиданную ошибку хранилища или внешнего сервиса.
func Internal(err error, message string) *AppError {
	return Wrap(err, ErrCodeInternal, message)
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeInvalidTransition:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или INTERNAL_ERROR для неизвестных ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsInvalidTransition(err error) bool {
	return CodeOf(err) == ErrCodeInvalidTransition
}

func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

var (
	ErrUserNotFound    = New(ErrCodeNotFound, "user not found")
	ErrJobNotFound     = New(ErrCodeNotFound, "job not found")
	ErrBookingNotFound = New(ErrCodeNotFound, "booking not found")
	ErrPaymentNotFound = New(ErrCodeNotFound, "payment not found")
	ErrProofNotFound   = New(ErrCodeNotFound, "payment proof not found")
	ErrReportNotFound  = New(ErrCodeNotFound, "report not found")
	ErrUnauthorized    = New(ErrCodeUnauthorized, "authentication required")
	ErrForbidden       = New(ErrCodeForbidden, "insufficient permissions")
	ErrStatusConflict  = New(ErrCodeConflict, "status was changed by another request, reload and retry")
	ErrMaintenance     = New(ErrCodeUnavailable, "service is under maintenance")
	ErrRateLimited     = New(ErrCodeRateLimited, "too many requests, try again later")
)
