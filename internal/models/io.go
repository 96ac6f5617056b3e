// Package models provides the invocation payloads and the result shapes returned by both functions.
package models

import (
	"encoding/json"
	"net/http"
)

// FailureKind enumerates the classes of failure an invocation can end with.
type FailureKind int

const (
	// KindValidation is a malformed caller input.
	KindValidation FailureKind = iota + 1
	// KindService is an error reported by GuardDuty with a structured code.
	KindService
	// KindSDK is a transport or client-library failure without a structured code.
	KindSDK
	// KindUnexpected is anything else.
	KindUnexpected
)

// Error codes used on the wire. Service failures carry the downstream code instead.
const (
	CodeValidation = "ValidationError"
	CodeSDK        = "BotoCoreError"
	CodeUnexpected = "UnexpectedError"
)

func (k FailureKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindService:
		return "service"
	case KindSDK:
		return "sdk"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Failure is the error shape returned to callers.
type Failure struct {
	Kind       FailureKind `json:"-"`
	StatusCode int         `json:"statusCode"`
	Code       string      `json:"error"`
	Message    string      `json:"message"`
}

// NewValidationFailure returns a 400 failure for a rejected input.
func NewValidationFailure(message string) *Failure {
	return &Failure{Kind: KindValidation, StatusCode: http.StatusBadRequest, Code: CodeValidation, Message: message}
}

// NewServiceFailure returns a 500 failure carrying the downstream error code and message verbatim.
func NewServiceFailure(code, message string) *Failure {
	return &Failure{Kind: KindService, StatusCode: http.StatusInternalServerError, Code: code, Message: message}
}

// NewSDKFailure returns a 500 failure for a transport or client-library error.
func NewSDKFailure(message string) *Failure {
	return &Failure{Kind: KindSDK, StatusCode: http.StatusInternalServerError, Code: CodeSDK, Message: message}
}

// NewUnexpectedFailure returns a 500 failure for any other error.
func NewUnexpectedFailure(message string) *Failure {
	return &Failure{Kind: KindUnexpected, StatusCode: http.StatusInternalServerError, Code: CodeUnexpected, Message: message}
}

// FindingsPayload is the success shape of the get-findings function.
type FindingsPayload struct {
	Findings []any `json:"Findings"`
}

// DetectorsPayload is the success shape of the list-detectors function.
type DetectorsPayload struct {
	DetectorIds []string `json:"DetectorIds"`
}

// Result holds either a success value or a failure, never both.
type Result[T any] struct {
	Value   T
	Failure *Failure
}

// Success wraps a value into a successful Result.
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps a failure into a Result.
func Fail[T any](f *Failure) Result[T] {
	return Result[T]{Failure: f}
}

// OK reports whether the result is a success.
func (r Result[T]) OK() bool {
	return r.Failure == nil
}

// StatusCode returns the HTTP-equivalent status of the result.
func (r Result[T]) StatusCode() int {
	if r.Failure != nil {
		return r.Failure.StatusCode
	}
	return http.StatusOK
}

// Outcome returns a short label for metrics and logs.
func (r Result[T]) Outcome() string {
	if r.Failure != nil {
		return r.Failure.Kind.String()
	}
	return "success"
}

// MarshalJSON renders the failure shape when present, and the bare success value otherwise.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.Failure != nil {
		return json.Marshal(r.Failure)
	}
	return json.Marshal(r.Value)
}
