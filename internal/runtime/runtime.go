// Package runtime adapts the handler to its transports: the Lambda runtime, local invocations and HTTP.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/isometry/guardduty-proxy-app/internal/handler"
	"github.com/isometry/guardduty-proxy-app/internal/helpers"
	"github.com/isometry/guardduty-proxy-app/internal/models"
)

const maxLoggedPayload = 256

// Option is a functional option of the Runtime.
type Option func(*Runtime)

// WithLogger sets the logger of the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithBasePath sets the path under which ServeHTTP expects the function names.
func WithBasePath(basePath string) Option {
	return func(r *Runtime) {
		r.basePath = basePath
	}
}

// Result is the outcome of an invocation as seen by a transport.
type Result interface {
	json.Marshaler
	OK() bool
	StatusCode() int
}

type Runtime struct {
	*handler.Handler
	logger   *slog.Logger
	basePath string
}

// NewRuntime creates a new runtime instance
func NewRuntime(handler *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{Handler: handler, basePath: "/"}
	for _, opt := range opts {
		opt(_inst)
	}
	_inst.basePath = helpers.BasePath(_inst.basePath)
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// LambdaGetFindings is the Lambda handler of the get-findings function.
// Failures are part of the returned payload; the error is always nil.
func (r *Runtime) LambdaGetFindings(ctx context.Context, payload json.RawMessage) (any, error) {
	return r.Invoke(ctx, handler.FunctionGetFindings, payload)
}

// LambdaListDetectors is the Lambda handler of the list-detectors function.
// Failures are part of the returned payload; the error is always nil.
func (r *Runtime) LambdaListDetectors(ctx context.Context, payload json.RawMessage) (any, error) {
	return r.Invoke(ctx, handler.FunctionListDetectors, payload)
}

// LambdaHandler returns the Lambda handler of the named function.
func (r *Runtime) LambdaHandler(function string) (func(context.Context, json.RawMessage) (any, error), error) {
	switch function {
	case handler.FunctionGetFindings:
		return r.LambdaGetFindings, nil
	case handler.FunctionListDetectors:
		return r.LambdaListDetectors, nil
	default:
		return nil, fmt.Errorf("unknown function: %s", function)
	}
}

// Invoke runs the named function against a raw JSON payload.
// It only returns an error for an unknown function.
func (r *Runtime) Invoke(ctx context.Context, function string, payload []byte) (Result, error) {
	switch function {
	case handler.FunctionGetFindings:
		event, err := r.parse(function, payload)
		if err != nil {
			return models.Fail[models.FindingsPayload](handler.Classify(err)), nil
		}
		return r.GetFindings(ctx, event), nil
	case handler.FunctionListDetectors:
		event, err := r.parse(function, payload)
		if err != nil {
			return models.Fail[models.DetectorsPayload](handler.Classify(err)), nil
		}
		return r.ListDetectors(ctx, event), nil
	default:
		return nil, fmt.Errorf("unknown function: %s", function)
	}
}

func (r *Runtime) parse(function string, payload []byte) (models.Event, error) {
	// an empty payload is an empty event
	if len(strings.TrimSpace(string(payload))) == 0 {
		return models.Event{}, nil
	}
	event, err := models.ParseEvent(payload)
	if err != nil {
		r.logger.Error("failed to parse event",
			slog.String("function", function),
			slog.String("payload", helpers.Truncate(string(payload), maxLoggedPayload)),
			slog.Any("error", err))
		return nil, &handler.UnexpectedError{Cause: err}
	}
	return event, nil
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.logger.Debug("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", "method not allowed", slog.Any("method", req.Method))
		resp.Header().Set("Allow", http.MethodPost)
		helpers.RespondJSON(resp, http.StatusMethodNotAllowed, httpFailure(http.StatusMethodNotAllowed, "method not allowed"))
		return
	}

	function := strings.TrimPrefix(path.Clean(req.URL.Path), r.basePath)
	function = strings.Trim(function, "/")
	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.String("path", req.URL.Path), slog.String("function", function))

	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondJSON(resp, http.StatusInternalServerError, handler.Classify(&handler.UnexpectedError{Cause: err}))
		return
	}

	ctx := helpers.WithNewRequestID(req.Context())
	result, err := r.Invoke(ctx, function, body)
	if err != nil {
		r.logger.Debug("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", err.Error())
		helpers.RespondJSON(resp, http.StatusNotFound, httpFailure(http.StatusNotFound, err.Error()))
		return
	}
	resp.Header().Set("X-Request-Id", helpers.RequestID(ctx))
	helpers.RespondJSON(resp, result.StatusCode(), result)
}

// httpFailure is the body of a request rejected before reaching a function.
func httpFailure(statusCode int, message string) *models.Failure {
	return &models.Failure{
		Kind:       models.KindUnexpected,
		StatusCode: statusCode,
		Code:       strings.ReplaceAll(http.StatusText(statusCode), " ", ""),
		Message:    message,
	}
}
