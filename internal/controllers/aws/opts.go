package aws

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// WithLogger sets a custom slog.Logger instance for the Controller struct to use for logging operations.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Controller) {
		a.logger = logger
	}
}

// WithConfig uses cfg instead of loading the default AWS configuration.
func WithConfig(cfg *aws.Config) Option {
	return func(a *Controller) {
		a.config = cfg
	}
}

// WithLoadOptions appends options applied when loading the default AWS configuration.
func WithLoadOptions(opts ...func(*config.LoadOptions) error) Option {
	return func(a *Controller) {
		a.loadOptions = append(a.loadOptions, opts...)
	}
}

// WithArchiveBucket sets the S3 bucket findings are archived to.
func WithArchiveBucket(bucket string) Option {
	return func(a *Controller) {
		a.archive.bucket = bucket
	}
}

// WithArchiveBucketSSMParameter resolves the archive bucket from the named SSM parameter on first use.
func WithArchiveBucketSSMParameter(name string) Option {
	return func(a *Controller) {
		a.archive.ssmParameter = name
	}
}

// WithArchivePrefix sets the key prefix of archived objects.
func WithArchivePrefix(prefix string) Option {
	return func(a *Controller) {
		a.archive.prefix = prefix
	}
}

// WithS3Client overrides the S3 client.
func WithS3Client(client S3API) Option {
	return func(a *Controller) {
		a.s3Client = client
	}
}

// WithSSMClient overrides the SSM client.
func WithSSMClient(client SSMAPI) Option {
	return func(a *Controller) {
		a.ssmClient = client
	}
}
