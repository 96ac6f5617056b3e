package handler_test

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/guardduty"
	awsctl "github.com/isometry/guardduty-proxy-app/internal/controllers/aws"
)

const ambientRegion = "<ambient>"

type fakeGuardDuty struct {
	mu sync.Mutex

	findingsOut  *guardduty.GetFindingsOutput
	detectorsOut *guardduty.ListDetectorsOutput
	err          error

	getFindingsCalls   []*guardduty.GetFindingsInput
	listDetectorsCalls int
}

func (f *fakeGuardDuty) GetFindings(_ context.Context, params *guardduty.GetFindingsInput, _ ...func(*guardduty.Options)) (*guardduty.GetFindingsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getFindingsCalls = append(f.getFindingsCalls, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.findingsOut, nil
}

func (f *fakeGuardDuty) ListDetectors(_ context.Context, _ *guardduty.ListDetectorsInput, _ ...func(*guardduty.Options)) (*guardduty.ListDetectorsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listDetectorsCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.detectorsOut, nil
}

// fakeFactory records the region of every client it builds; the ambient region is recorded as ambientRegion.
type fakeFactory struct {
	api     *fakeGuardDuty
	err     error
	regions []string
}

func (f *fakeFactory) GuardDutyClient(_ context.Context, region string) (awsctl.GuardDutyAPI, error) {
	if region == "" {
		region = ambientRegion
	}
	f.regions = append(f.regions, region)
	if f.err != nil {
		return nil, f.err
	}
	return f.api, nil
}

type fakeArchiver struct {
	err    error
	bodies map[string]string
}

func (f *fakeArchiver) ArchiveFindings(_ context.Context, detectorID string, body []byte) error {
	if f.bodies == nil {
		f.bodies = map[string]string{}
	}
	f.bodies[detectorID] = string(body)
	return f.err
}

var errBoom = errors.New("Unexpected error occurred")
