// Package aws provides the Controller that builds GuardDuty clients and archives findings to S3,
// with context and logging support.
package aws

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/guardduty"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/isometry/guardduty-proxy-app/internal/helpers"
	"github.com/pkg/errors"
)

// GuardDutyAPI is the subset of the GuardDuty client used by the proxy functions.
type GuardDutyAPI interface {
	GetFindings(ctx context.Context, params *guardduty.GetFindingsInput, optFns ...func(*guardduty.Options)) (*guardduty.GetFindingsOutput, error)
	ListDetectors(ctx context.Context, params *guardduty.ListDetectorsInput, optFns ...func(*guardduty.Options)) (*guardduty.ListDetectorsOutput, error)
}

// S3API is the subset of the S3 client used to archive findings.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SSMAPI is the subset of the SSM client used to resolve the archive bucket.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Controller represents a wrapper for AWS services providing GuardDuty, S3 and SSM functionality.
// The shared AWS configuration is loaded on first use and reused afterwards; clients bound to a
// region are built per call.
type Controller struct {
	logger *slog.Logger

	mu          sync.Mutex
	config      *aws.Config
	loadOptions []func(*config.LoadOptions) error

	s3Client  S3API
	ssmClient SSMAPI
	archive   archiveTarget
}

type archiveTarget struct {
	bucket       string
	ssmParameter string
	prefix       string
}

// Option defines a function type used to configure an instance of the Controller struct.
type Option func(*Controller)

// NewController initializes a Controller with customizable options and default configurations if unspecified.
// Loading the AWS configuration is deferred to the first call that needs it.
func NewController(opts ...Option) (*Controller, error) {
	_inst := &Controller{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.logger = _inst.logger.With("controller", "aws")
	if _inst.archive.bucket != "" && _inst.archive.ssmParameter != "" {
		return nil, errors.New("archive bucket and archive bucket SSM parameter are mutually exclusive")
	}
	return _inst, nil
}

// AWSConfig returns the shared AWS configuration, loading it from the ambient environment if needed.
// A failed load is not cached, so the next call tries again.
func (a *Controller) AWSConfig(ctx context.Context) (aws.Config, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.config != nil {
		return *a.config, nil
	}
	a.logger.Debug("loading default AWS configuration...")
	cfg, err := config.LoadDefaultConfig(ctx, a.loadOptions...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "failed to load AWS configuration")
	}
	cfg.Logger = newAWSLogger(a.logger)
	a.config = &cfg
	return cfg, nil
}

// GuardDutyClient returns a GuardDuty client bound to region, or to the ambient region of the AWS
// configuration when region is empty. The client never retries: each operation is attempted once.
func (a *Controller) GuardDutyClient(ctx context.Context, region string) (GuardDutyAPI, error) {
	cfg, err := a.AWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	helpers.OnceAMinute.Do(func() {
		a.logger.Info("resolved AWS configuration", slog.String("defaultRegion", cfg.Region))
	})
	a.logger.Debug("creating GuardDuty client...", slog.String("region", region))
	return guardduty.NewFromConfig(cfg, func(o *guardduty.Options) {
		if region != "" {
			o.Region = region
		}
		o.Retryer = aws.NopRetryer{}
	}), nil
}

// ArchiveEnabled reports whether an archive target has been configured.
func (a *Controller) ArchiveEnabled() bool {
	return a.archive.bucket != "" || a.archive.ssmParameter != ""
}

// ArchiveFindings uploads a serialised findings payload to the archive bucket.
// The object key is the archive prefix followed by the upload time and the detector ID.
func (a *Controller) ArchiveFindings(ctx context.Context, detectorID string, body []byte) error {
	bucket, err := a.archiveBucket(ctx)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%s%s.%s.findings.json", a.archive.prefix, time.Now().UTC().Format(time.RFC3339Nano), detectorID)
	return a.PutS3Object(ctx, bucket, key, body)
}

// PutS3Object uploads a JSON object to the specified S3 bucket under key.
// Returns an error if the bucket name is empty or if the upload fails.
func (a *Controller) PutS3Object(ctx context.Context, bucket, key string, body []byte) error {
	if bucket == "" {
		return errors.New("missing S3 bucket name")
	}
	client, err := a.s3(ctx)
	if err != nil {
		return err
	}
	a.logger.Debug("uploading object to S3...", slog.String("bucket", bucket), slog.String("key", key))
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to put object to S3")
	}
	return nil
}

// GetParameter retrieves a value from SSM Parameter Store, decrypting it when encrypted is true.
func (a *Controller) GetParameter(ctx context.Context, name string, encrypted bool) (string, error) {
	client, err := a.ssm(ctx)
	if err != nil {
		return "", err
	}
	a.logger.With("key", name).Debug("fetching SSM parameter...")
	ssmResponse, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(encrypted),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to load SSM parameter")
	}
	if ssmResponse.Parameter == nil {
		return "", errors.Errorf("SSM parameter %s has no value", name)
	}
	return helpers.String(ssmResponse.Parameter.Value), nil
}

func (a *Controller) archiveBucket(ctx context.Context) (string, error) {
	a.mu.Lock()
	bucket, param := a.archive.bucket, a.archive.ssmParameter
	a.mu.Unlock()
	if bucket != "" {
		return bucket, nil
	}
	if param == "" {
		return "", errors.New("findings archive is not configured")
	}

	value, err := a.GetParameter(ctx, param, false)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve archive bucket")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.Errorf("SSM parameter %s holds an empty bucket name", param)
	}

	a.mu.Lock()
	a.archive.bucket = value
	a.mu.Unlock()
	return value, nil
}

func (a *Controller) s3(ctx context.Context) (S3API, error) {
	a.mu.Lock()
	client := a.s3Client
	a.mu.Unlock()
	if client != nil {
		return client, nil
	}
	cfg, err := a.AWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.s3Client == nil {
		a.s3Client = s3.NewFromConfig(cfg)
	}
	return a.s3Client, nil
}

func (a *Controller) ssm(ctx context.Context) (SSMAPI, error) {
	a.mu.Lock()
	client := a.ssmClient
	a.mu.Unlock()
	if client != nil {
		return client, nil
	}
	cfg, err := a.AWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ssmClient == nil {
		a.ssmClient = ssm.NewFromConfig(cfg)
	}
	return a.ssmClient, nil
}
