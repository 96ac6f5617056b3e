// Package handler implements the get-findings and list-detectors functions on top of a GuardDuty client factory.
package handler

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/guardduty"
	gdtypes "github.com/aws/aws-sdk-go-v2/service/guardduty/types"
	awsctl "github.com/isometry/guardduty-proxy-app/internal/controllers/aws"
	"github.com/isometry/guardduty-proxy-app/internal/helpers"
	"github.com/isometry/guardduty-proxy-app/internal/metrics"
	"github.com/isometry/guardduty-proxy-app/internal/models"
	"github.com/isometry/guardduty-proxy-app/internal/serde"
	"github.com/isometry/guardduty-proxy-app/internal/validation"
	"github.com/pkg/errors"
)

// Function names, as used on the command line, in logs and in metrics.
const (
	FunctionGetFindings   = "get-findings"
	FunctionListDetectors = "list-detectors"
)

// Functions lists the supported function names.
var Functions = []string{FunctionGetFindings, FunctionListDetectors}

// ClientFactory builds GuardDuty clients. An empty region selects the ambient default region.
type ClientFactory interface {
	GuardDutyClient(ctx context.Context, region string) (awsctl.GuardDutyAPI, error)
}

// Archiver stores serialised findings payloads.
type Archiver interface {
	ArchiveFindings(ctx context.Context, detectorID string, body []byte) error
}

// Option is a functional option of the Handler.
type Option func(*Handler)

// Handler serves both proxy functions. It keeps no state between invocations.
type Handler struct {
	logger    *slog.Logger
	clients   ClientFactory
	archiver  Archiver
	validator *validation.Validator
	metrics   *metrics.Metrics
}

// NewHandler returns a Handler. A ClientFactory is required.
func NewHandler(opts ...Option) (*Handler, error) {
	_inst := &Handler{
		logger:    helpers.NewNoopLogger(),
		validator: validation.New(),
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.clients == nil {
		return nil, errors.New("missing GuardDuty client factory")
	}
	return _inst, nil
}

// GetFindings validates the event, fetches the requested findings from the detector's region and
// returns them serialised to JSON-native values.
func (h *Handler) GetFindings(ctx context.Context, event models.Event) (result models.Result[models.FindingsPayload]) {
	logger := h.invocationLogger(ctx, FunctionGetFindings)
	defer func() { h.metrics.ObserveInvocation(FunctionGetFindings, result.Outcome()) }()
	logger.Info("received event", slog.Any("event", event))

	if err := h.validator.Validate(event, validation.FindingsRules); err != nil {
		return models.Fail[models.FindingsPayload](h.failure(logger, err))
	}

	detectorID := event.String(models.FieldDetectorID)
	region := event.String(models.FieldFindingRegion)
	findingIDs := event.Strings(models.FieldFindingIDs)
	logger = logger.With(slog.String("detectorId", detectorID), slog.String("region", region))
	logger.Info("getting findings...", slog.Any("findingIds", findingIDs))

	client, err := h.clients.GuardDutyClient(ctx, region)
	if err != nil {
		return models.Fail[models.FindingsPayload](h.failure(logger, unexpected(err)))
	}

	start := time.Now()
	out, err := client.GetFindings(ctx, &guardduty.GetFindingsInput{
		DetectorId: aws.String(detectorID),
		FindingIds: findingIDs,
	})
	h.metrics.ObserveDownstream("GetFindings", start)
	if err != nil {
		return models.Fail[models.FindingsPayload](h.failure(logger, err))
	}

	var findings []gdtypes.Finding
	if out != nil {
		findings = out.Findings
	}
	logger.Info("retrieved findings", slog.Int("count", len(findings)))

	serialised, err := serde.NormaliseAll(findings)
	if err != nil {
		return models.Fail[models.FindingsPayload](h.failure(logger, unexpected(err)))
	}

	payload := models.FindingsPayload{Findings: serialised}
	h.archive(ctx, logger, detectorID, payload)
	return models.Success(payload)
}

// ListDetectors lists the detector IDs of the event's region, or of the ambient region when
// FindingRegion is absent or empty.
func (h *Handler) ListDetectors(ctx context.Context, event models.Event) (result models.Result[models.DetectorsPayload]) {
	logger := h.invocationLogger(ctx, FunctionListDetectors)
	defer func() { h.metrics.ObserveInvocation(FunctionListDetectors, result.Outcome()) }()
	logger.Info("received event", slog.Any("event", event))

	region, err := optionalRegion(event)
	if err != nil {
		return models.Fail[models.DetectorsPayload](h.failure(logger, unexpected(err)))
	}
	logger.Info("listing detectors...", slog.String("region", cmp.Or(region, "current region")))

	client, err := h.clients.GuardDutyClient(ctx, region)
	if err != nil {
		return models.Fail[models.DetectorsPayload](h.failure(logger, unexpected(err)))
	}

	start := time.Now()
	out, err := client.ListDetectors(ctx, &guardduty.ListDetectorsInput{})
	h.metrics.ObserveDownstream("ListDetectors", start)
	if err != nil {
		return models.Fail[models.DetectorsPayload](h.failure(logger, err))
	}

	detectorIDs := []string{}
	if out != nil && out.DetectorIds != nil {
		detectorIDs = out.DetectorIds
	}
	logger.Info("retrieved detectors", slog.Int("count", len(detectorIDs)))
	return models.Success(models.DetectorsPayload{DetectorIds: detectorIDs})
}

func (h *Handler) invocationLogger(ctx context.Context, function string) *slog.Logger {
	return h.logger.With(
		slog.String("function", function),
		slog.String("requestId", helpers.RequestID(ctx)))
}

func (h *Handler) failure(logger *slog.Logger, err error) *models.Failure {
	f := Classify(err)
	logger.Error("invocation failed",
		slog.String("kind", f.Kind.String()),
		slog.String("error", f.Code),
		slog.String("message", f.Message))
	return f
}

func (h *Handler) archive(ctx context.Context, logger *slog.Logger, detectorID string, payload models.FindingsPayload) {
	if h.archiver == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err == nil {
		err = h.archiver.ArchiveFindings(ctx, detectorID, body)
	}
	if err != nil {
		logger.Warn("failed to archive findings", slog.Any("error", err))
		return
	}
	logger.Debug("archived findings")
}

// optionalRegion returns the FindingRegion of the event. Empty values of any JSON type
// (null, "", false, 0, [] and {}) select the ambient region.
func optionalRegion(event models.Event) (string, error) {
	v, _ := event.Get(models.FieldFindingRegion)
	switch region := v.(type) {
	case nil:
		return "", nil
	case string:
		return region, nil
	case bool:
		if !region {
			return "", nil
		}
	case float64:
		if region == 0 {
			return "", nil
		}
	case []any:
		if len(region) == 0 {
			return "", nil
		}
	case map[string]any:
		if len(region) == 0 {
			return "", nil
		}
	}
	return "", fmt.Errorf("FindingRegion must be a string, got %T", v)
}
