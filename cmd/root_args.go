package cmd

import (
	"github.com/isometry/guardduty-proxy-app/internal/config"
	"github.com/isometry/guardduty-proxy-app/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'lambda', 'service' and 'invoke'",
		Short:       helpers.Ptr("m"),
	},
	&config.AWS.Region: {
		Name:        "aws-region",
		Description: "The region used when an event carries no FindingRegion. Defaults to the ambient region",
		Env:         helpers.Ptr("AWS_REGION"),
	},
	&config.AWS.Profile: {
		Name:        "aws-profile",
		Description: "The shared configuration profile to load AWS credentials from",
		Env:         helpers.Ptr("AWS_PROFILE"),
	},
	&config.Archive.Bucket: {
		Name:        "archive-bucket",
		Description: "The S3 bucket to archive findings payloads to",
		Env:         helpers.Ptr("FINDINGS_ARCHIVE_BUCKET"),
	},
	&config.Archive.BucketSSMParameter: {
		Name:        "archive-bucket-ssm-parameter",
		Description: "The SSM parameter holding the S3 bucket to archive findings payloads to",
		Env:         helpers.Ptr("FINDINGS_ARCHIVE_BUCKET_SSM_PARAMETER"),
	},
	&config.Archive.Prefix: {
		Name:        "archive-prefix",
		Description: "The key prefix of archived findings payloads",
		Env:         helpers.Ptr("FINDINGS_ARCHIVE_PREFIX"),
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Archive.Enabled: {
		Name:        "archive",
		Description: "Enable archiving of get-findings payloads to S3",
		Env:         helpers.Ptr("FINDINGS_ARCHIVE"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}
