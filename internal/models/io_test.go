package models_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/isometry/guardduty-proxy-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultMarshalJSON(t *testing.T) {
	testCases := []struct {
		Name           string
		Result         json.Marshaler
		ExpectedJSON   string
		ExpectedStatus int
		ExpectedOK     bool
	}{
		{
			Name:           "findings_success",
			Result:         models.Success(models.FindingsPayload{Findings: []any{map[string]any{"Id": "finding-1"}}}),
			ExpectedJSON:   `{"Findings":[{"Id":"finding-1"}]}`,
			ExpectedStatus: http.StatusOK,
			ExpectedOK:     true,
		},
		{
			Name:           "empty_detectors_success",
			Result:         models.Success(models.DetectorsPayload{DetectorIds: []string{}}),
			ExpectedJSON:   `{"DetectorIds":[]}`,
			ExpectedStatus: http.StatusOK,
			ExpectedOK:     true,
		},
		{
			Name:           "validation_failure",
			Result:         models.Fail[models.FindingsPayload](models.NewValidationFailure("DetectorId is required")),
			ExpectedJSON:   `{"statusCode":400,"error":"ValidationError","message":"DetectorId is required"}`,
			ExpectedStatus: http.StatusBadRequest,
		},
		{
			Name:           "service_failure",
			Result:         models.Fail[models.DetectorsPayload](models.NewServiceFailure("AccessDeniedException", "User is not authorized to perform: guardduty:ListDetectors")),
			ExpectedJSON:   `{"statusCode":500,"error":"AccessDeniedException","message":"User is not authorized to perform: guardduty:ListDetectors"}`,
			ExpectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			out, err := json.Marshal(tc.Result)
			require.NoError(t, err)
			assert.JSONEq(t, tc.ExpectedJSON, string(out))

			status := tc.Result.(interface{ StatusCode() int }).StatusCode()
			assert.Equal(t, tc.ExpectedStatus, status)
			assert.Equal(t, tc.ExpectedOK, tc.Result.(interface{ OK() bool }).OK())
		})
	}
}

func TestFailureKinds(t *testing.T) {
	testCases := []struct {
		Name            string
		Failure         *models.Failure
		ExpectedCode    string
		ExpectedOutcome string
	}{
		{
			Name:            "validation",
			Failure:         models.NewValidationFailure("FindingRegion is required"),
			ExpectedCode:    "ValidationError",
			ExpectedOutcome: "validation",
		},
		{
			Name:            "service",
			Failure:         models.NewServiceFailure("DetectorNotFound", "The detector does not exist"),
			ExpectedCode:    "DetectorNotFound",
			ExpectedOutcome: "service",
		},
		{
			Name:            "sdk",
			Failure:         models.NewSDKFailure("connection refused"),
			ExpectedCode:    "BotoCoreError",
			ExpectedOutcome: "sdk",
		},
		{
			Name:            "unexpected",
			Failure:         models.NewUnexpectedFailure("boom"),
			ExpectedCode:    "UnexpectedError",
			ExpectedOutcome: "unexpected",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			r := models.Fail[models.DetectorsPayload](tc.Failure)
			assert.Equal(t, tc.ExpectedCode, tc.Failure.Code)
			assert.Equal(t, tc.ExpectedOutcome, r.Outcome())
			assert.False(t, r.OK())
		})
	}
}
