package cmd

import (
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/isometry/guardduty-proxy-app/internal/config"
	awsctl "github.com/isometry/guardduty-proxy-app/internal/controllers/aws"
	"github.com/isometry/guardduty-proxy-app/internal/handler"
	"github.com/isometry/guardduty-proxy-app/internal/metrics"
	"github.com/isometry/guardduty-proxy-app/internal/runtime"
	"github.com/pkg/errors"
)

// setup wires the AWS controller, the handler and the runtime from the loaded configuration.
func setup(m *metrics.Metrics) (*runtime.Runtime, error) {
	logger.Debug("creating AWS controller...")
	ctlOpts := []awsctl.Option{
		awsctl.WithLogger(logger.With("component", "aws-controller")),
		awsctl.WithLoadOptions(loadOptions()...),
	}
	if config.Archive.Enabled {
		ctlOpts = append(ctlOpts,
			awsctl.WithArchiveBucket(config.Archive.Bucket),
			awsctl.WithArchiveBucketSSMParameter(config.Archive.BucketSSMParameter),
			awsctl.WithArchivePrefix(config.Archive.Prefix))
	}
	ctl, err := awsctl.NewController(ctlOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AWS controller")
	}

	logger.Debug("creating handler...")
	hdlOpts := []handler.Option{
		handler.WithLogger(logger.With("component", "handler")),
		handler.WithClientFactory(ctl),
		handler.WithMetrics(m),
	}
	if ctl.ArchiveEnabled() {
		logger.Info("findings archive enabled", slog.String("prefix", config.Archive.Prefix))
		hdlOpts = append(hdlOpts, handler.WithArchiver(ctl))
	}
	hdl, err := handler.NewHandler(hdlOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create handler")
	}

	logger.Debug("creating runtime...")
	return runtime.NewRuntime(hdl,
		runtime.WithLogger(logger.With("component", "runtime")),
		runtime.WithBasePath(config.Service.Path)), nil
}

func loadOptions() []func(*awsconfig.LoadOptions) error {
	var opts []func(*awsconfig.LoadOptions) error
	if config.AWS.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.AWS.Region))
	}
	if config.AWS.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(config.AWS.Profile))
	}
	return opts
}
