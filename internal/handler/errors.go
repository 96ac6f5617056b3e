package handler

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/isometry/guardduty-proxy-app/internal/models"
	"github.com/isometry/guardduty-proxy-app/internal/validation"
)

// UnexpectedError marks a failure that must be reported as UnexpectedError whatever it wraps,
// such as a failure to build the client or to serialise its output.
type UnexpectedError struct {
	Cause error
}

func (e *UnexpectedError) Error() string {
	return e.Cause.Error()
}

func (e *UnexpectedError) Unwrap() error {
	return e.Cause
}

func unexpected(err error) error {
	return &UnexpectedError{Cause: err}
}

// Classify maps an error to the failure returned to the caller, in precedence order:
// validation errors, GuardDuty errors with a structured code, SDK and transport errors,
// and anything else.
func Classify(err error) *models.Failure {
	if err == nil {
		return nil
	}

	var unexpectedErr *UnexpectedError
	if errors.As(err, &unexpectedErr) {
		return models.NewUnexpectedFailure(err.Error())
	}

	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		return models.NewValidationFailure(validationErr.Message)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && hasStructuredCode(apiErr) {
		return models.NewServiceFailure(apiErr.ErrorCode(), apiErr.ErrorMessage())
	}

	if isSDKError(err) {
		return models.NewSDKFailure(err.Error())
	}

	return models.NewUnexpectedFailure(err.Error())
}

// unknownErrorCode is the code the SDK deserialisers fill in when a response carries none,
// e.g. a bare 429 or 503 from a proxy or load balancer.
const unknownErrorCode = "UnknownError"

func hasStructuredCode(apiErr smithy.APIError) bool {
	code := apiErr.ErrorCode()
	return code != "" && code != unknownErrorCode
}

func isSDKError(err error) bool {
	var (
		operationErr     *smithy.OperationError
		sendErr          *smithyhttp.RequestSendError
		canceledErr      *smithy.CanceledError
		serializationErr *smithy.SerializationError
		deserializeErr   *smithy.DeserializationError
		requestCancelErr *aws.RequestCanceledError
	)
	return errors.As(err, &operationErr) ||
		errors.As(err, &sendErr) ||
		errors.As(err, &canceledErr) ||
		errors.As(err, &serializationErr) ||
		errors.As(err, &deserializeErr) ||
		errors.As(err, &requestCancelErr)
}
