package runtime_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/service/guardduty"
	awsctl "github.com/isometry/guardduty-proxy-app/internal/controllers/aws"
	"github.com/isometry/guardduty-proxy-app/internal/handler"
	"github.com/isometry/guardduty-proxy-app/internal/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGuardDuty struct {
	detectorIDs []string
}

func (s *stubGuardDuty) GetFindings(context.Context, *guardduty.GetFindingsInput, ...func(*guardduty.Options)) (*guardduty.GetFindingsOutput, error) {
	return &guardduty.GetFindingsOutput{}, nil
}

func (s *stubGuardDuty) ListDetectors(context.Context, *guardduty.ListDetectorsInput, ...func(*guardduty.Options)) (*guardduty.ListDetectorsOutput, error) {
	return &guardduty.ListDetectorsOutput{DetectorIds: s.detectorIDs}, nil
}

type stubFactory struct {
	regions []string
}

func (s *stubFactory) GuardDutyClient(_ context.Context, region string) (awsctl.GuardDutyAPI, error) {
	s.regions = append(s.regions, region)
	return &stubGuardDuty{detectorIDs: []string{"detector-1"}}, nil
}

func newRuntime(t *testing.T, opts ...runtime.Option) (*runtime.Runtime, *stubFactory) {
	t.Helper()
	factory := &stubFactory{}
	hdl, err := handler.NewHandler(handler.WithClientFactory(factory))
	require.NoError(t, err)
	return runtime.NewRuntime(hdl, opts...), factory
}

func TestInvoke(t *testing.T) {
	testCases := []struct {
		Name           string
		Function       string
		Payload        string
		ExpectError    bool
		ExpectedStatus int
		ExpectedJSON   string
	}{
		{
			Name:           "list_detectors",
			Function:       handler.FunctionListDetectors,
			Payload:        `{"FindingRegion":"us-west-2"}`,
			ExpectedStatus: http.StatusOK,
			ExpectedJSON:   `{"DetectorIds":["detector-1"]}`,
		},
		{
			Name:           "list_detectors_empty_payload",
			Function:       handler.FunctionListDetectors,
			Payload:        "",
			ExpectedStatus: http.StatusOK,
			ExpectedJSON:   `{"DetectorIds":["detector-1"]}`,
		},
		{
			Name:           "get_findings",
			Function:       handler.FunctionGetFindings,
			Payload:        `{"DetectorId":"d-1","FindingRegion":"us-east-1","FindingIds":["f-1"]}`,
			ExpectedStatus: http.StatusOK,
			ExpectedJSON:   `{"Findings":[]}`,
		},
		{
			Name:           "get_findings_validation",
			Function:       handler.FunctionGetFindings,
			Payload:        `{"FindingRegion":"us-east-1","FindingIds":["f-1"]}`,
			ExpectedStatus: http.StatusBadRequest,
			ExpectedJSON:   `{"statusCode":400,"error":"ValidationError","message":"DetectorId is required"}`,
		},
		{
			Name:           "non_object_payload",
			Function:       handler.FunctionGetFindings,
			Payload:        `["d-1"]`,
			ExpectedStatus: http.StatusInternalServerError,
		},
		{
			Name:           "malformed_payload",
			Function:       handler.FunctionListDetectors,
			Payload:        `{"FindingRegion":`,
			ExpectedStatus: http.StatusInternalServerError,
		},
		{
			Name:        "unknown_function",
			Function:    "archive-findings",
			Payload:     `{}`,
			ExpectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rt, _ := newRuntime(t)

			result, err := rt.Invoke(context.Background(), tc.Function, []byte(tc.Payload))
			if tc.ExpectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.ExpectedStatus, result.StatusCode())

			out, err := json.Marshal(result)
			require.NoError(t, err)
			if tc.ExpectedJSON != "" {
				assert.JSONEq(t, tc.ExpectedJSON, string(out))
			} else {
				assert.Contains(t, string(out), `"error":"UnexpectedError"`)
			}
		})
	}
}

func TestLambdaHandlers(t *testing.T) {
	rt, factory := newRuntime(t)
	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-123"})

	fn, err := rt.LambdaHandler(handler.FunctionListDetectors)
	require.NoError(t, err)
	out, err := fn(ctx, json.RawMessage(`{"FindingRegion":null}`))
	require.NoError(t, err)
	body, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"DetectorIds":["detector-1"]}`, string(body))
	assert.Equal(t, []string{""}, factory.regions)

	// handled failures are returned as payloads, never as errors
	out, err = rt.LambdaGetFindings(ctx, json.RawMessage(`{}`))
	require.NoError(t, err)
	body, err = json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode":400,"error":"ValidationError","message":"DetectorId is required"}`, string(body))

	_, err = rt.LambdaHandler("unknown")
	assert.Error(t, err)
}

func TestServeHTTP(t *testing.T) {
	testCases := []struct {
		Name           string
		BasePath       string
		Method         string
		Path           string
		Body           string
		ExpectedStatus int
		ExpectedJSON   string
	}{
		{
			Name:           "list_detectors",
			Method:         http.MethodPost,
			Path:           "/list-detectors",
			Body:           `{}`,
			ExpectedStatus: http.StatusOK,
			ExpectedJSON:   `{"DetectorIds":["detector-1"]}`,
		},
		{
			Name:           "get_findings_under_base_path",
			BasePath:       "/api/",
			Method:         http.MethodPost,
			Path:           "/api/get-findings",
			Body:           `{"DetectorId":"d-1","FindingRegion":"us-east-1","FindingIds":["f-1"]}`,
			ExpectedStatus: http.StatusOK,
			ExpectedJSON:   `{"Findings":[]}`,
		},
		{
			Name:           "relative_base_path",
			BasePath:       "api",
			Method:         http.MethodPost,
			Path:           "/api/list-detectors",
			Body:           `{}`,
			ExpectedStatus: http.StatusOK,
			ExpectedJSON:   `{"DetectorIds":["detector-1"]}`,
		},
		{
			Name:           "relative_base_path_trailing_slash",
			BasePath:       "api/",
			Method:         http.MethodPost,
			Path:           "/api/list-detectors",
			Body:           `{}`,
			ExpectedStatus: http.StatusOK,
			ExpectedJSON:   `{"DetectorIds":["detector-1"]}`,
		},
		{
			Name:           "rooted_base_path",
			BasePath:       "/api",
			Method:         http.MethodPost,
			Path:           "/api/list-detectors",
			Body:           `{}`,
			ExpectedStatus: http.StatusOK,
			ExpectedJSON:   `{"DetectorIds":["detector-1"]}`,
		},
		{
			Name:           "validation_failure",
			Method:         http.MethodPost,
			Path:           "/get-findings",
			Body:           `{"DetectorId":"d-1","FindingRegion":"us-east-1","FindingIds":[]}`,
			ExpectedStatus: http.StatusBadRequest,
			ExpectedJSON:   `{"statusCode":400,"error":"ValidationError","message":"FindingIds must be a non-empty list"}`,
		},
		{
			Name:           "method_not_allowed",
			Method:         http.MethodGet,
			Path:           "/list-detectors",
			ExpectedStatus: http.StatusMethodNotAllowed,
			ExpectedJSON:   `{"statusCode":405,"error":"MethodNotAllowed","message":"method not allowed"}`,
		},
		{
			Name:           "unknown_function",
			Method:         http.MethodPost,
			Path:           "/describe-findings",
			Body:           `{}`,
			ExpectedStatus: http.StatusNotFound,
			ExpectedJSON:   `{"statusCode":404,"error":"NotFound","message":"unknown function: describe-findings"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var opts []runtime.Option
			if tc.BasePath != "" {
				opts = append(opts, runtime.WithBasePath(tc.BasePath))
			}
			rt, _ := newRuntime(t, opts...)

			req := httptest.NewRequest(tc.Method, tc.Path, strings.NewReader(tc.Body))
			rec := httptest.NewRecorder()
			rt.ServeHTTP(rec, req)

			assert.Equal(t, tc.ExpectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.ExpectedJSON, rec.Body.String())
			if rec.Code == http.StatusOK {
				assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
			}
		})
	}
}
