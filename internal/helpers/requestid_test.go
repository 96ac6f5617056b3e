package helpers_test

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/isometry/guardduty-proxy-app/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	testCases := []struct {
		Name     string
		Context  context.Context
		Expected string
	}{
		{
			Name:     "empty_context",
			Context:  context.Background(),
			Expected: "",
		},
		{
			Name:     "explicit_request_id",
			Context:  helpers.WithRequestID(context.Background(), "req-1"),
			Expected: "req-1",
		},
		{
			Name: "lambda_request_id",
			Context: lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{
				AwsRequestID: "8f5ef8b4-5b31-4d2b-a0c6-0e4a7b1d2f10",
			}),
			Expected: "8f5ef8b4-5b31-4d2b-a0c6-0e4a7b1d2f10",
		},
		{
			Name: "lambda_request_id_takes_precedence",
			Context: lambdacontext.NewContext(helpers.WithRequestID(context.Background(), "req-1"), &lambdacontext.LambdaContext{
				AwsRequestID: "lambda-req",
			}),
			Expected: "lambda-req",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.RequestID(tc.Context))
		})
	}
}

func TestWithNewRequestID(t *testing.T) {
	ctx := helpers.WithNewRequestID(context.Background())
	id := helpers.RequestID(ctx)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	// an existing ID is preserved
	assert.Equal(t, id, helpers.RequestID(helpers.WithNewRequestID(ctx)))
}
