package helpers_test

import (
	"testing"

	"github.com/isometry/guardduty-proxy-app/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    *string
		Expected string
	}{
		{
			Name:     "nil_string",
			Input:    nil,
			Expected: "",
		},
		{
			Name:     "empty_string",
			Input:    new(string),
			Expected: "",
		},
		{
			Name:     "detector_id",
			Input:    helpers.Ptr("12abc34d567e8fa901bc2d34e56789f0"),
			Expected: "12abc34d567e8fa901bc2d34e56789f0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.String(tc.Input))
		})
	}
}

func TestTruncate(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    string
		Length   int
		Expected string
	}{
		{
			Name:     "shorter_than_limit",
			Input:    "us-east-1",
			Length:   16,
			Expected: "us-east-1",
		},
		{
			Name:     "exact_limit",
			Input:    "us-east-1",
			Length:   9,
			Expected: "us-east-1",
		},
		{
			Name:     "longer_than_limit",
			Input:    `{"DetectorId":"abc","FindingRegion":"eu-west-1"}`,
			Length:   10,
			Expected: `{"Detec...`,
		},
		{
			Name:     "tiny_limit",
			Input:    "eu-west-1",
			Length:   2,
			Expected: "eu",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.Truncate(tc.Input, tc.Length))
		})
	}
}
