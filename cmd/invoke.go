package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/isometry/guardduty-proxy-app/internal/handler"
	"github.com/isometry/guardduty-proxy-app/internal/helpers"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var invokeEventPath string

func cmdInvoke() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "invoke <function>",
		Short:     "Run a single event through a function and print the result",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: handler.Functions,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readEvent(cmd.InOrStdin(), invokeEventPath)
			if err != nil {
				return err
			}

			rt, err := setup(nil)
			if err != nil {
				return errors.Wrap(err, "failed to setup invoke")
			}

			ctx := helpers.WithNewRequestID(cmd.Context())
			result, err := rt.Invoke(ctx, args[0], payload)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to serialise result")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			if !result.OK() {
				return fmt.Errorf("invocation failed with status %d", result.StatusCode())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&invokeEventPath, "event", "e", "", "path to the JSON event, or '-' for stdin (default empty event)")
	return cmd
}

// readEvent reads the event payload from path, from stdin when path is "-", or returns an empty payload.
func readEvent(stdin io.Reader, path string) ([]byte, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		payload, err := io.ReadAll(stdin)
		return payload, errors.Wrap(err, "failed to read event from stdin")
	default:
		payload, err := os.ReadFile(filepath.Clean(path))
		return payload, errors.Wrapf(err, "failed to read event file %s", path)
	}
}
