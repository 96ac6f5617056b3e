package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isometry/guardduty-proxy-app/internal/config"
	"github.com/isometry/guardduty-proxy-app/internal/handler"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var lambdaEnvMapString = map[*string]boundEnvVar[string]{
	&config.Lambda.Function: {
		Name:        "lambda-function",
		Description: "The function to serve when running in Lambda mode. Supported values are 'get-findings' and 'list-detectors'",
	},
}

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Serve a function on the AWS Lambda runtime",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLambda(cmd, config.Lambda.Function)
		},
	}
	for _, function := range handler.Functions {
		cmd.AddCommand(&cobra.Command{
			Use:   function,
			Short: "Serve the " + function + " function on the AWS Lambda runtime",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runLambda(cmd, function)
			},
		})
	}
	return cmd
}

func runLambda(cmd *cobra.Command, function string) error {
	rt, err := setup(nil)
	if err != nil {
		return errors.Wrap(err, "failed to setup lambda")
	}
	fn, err := rt.LambdaHandler(function)
	if err != nil {
		return err
	}

	logger = logger.With("function", function)
	logger.Info("lambda starting...")
	lambda.StartWithOptions(fn, lambda.WithContext(cmd.Context()))
	return nil
}
