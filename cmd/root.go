// Package cmd provides the entrypoint for the guardduty-proxy cli.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/isometry/guardduty-proxy-app/internal/config"
	"github.com/isometry/guardduty-proxy-app/internal/helpers"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFilePath string
	logger         *slog.Logger
)

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	Hidden            bool
}

// New returns the root command for the guardduty-proxy.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "guardduty-proxy",
		Short:        "Proxy GuardDuty findings and detectors lookups",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			config.Global.Mode = strings.TrimSpace(config.Global.Mode)
			logger = helpers.NewJSONLogger(
				slog.LevelWarn-slog.Level(config.Global.Logging.Verbosity*4),
				config.Global.Logging.CallerTrace,
			).With("mode", config.Global.Mode)
			return config.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch config.Global.Mode {
			case config.ModeService:
				return runService(cmd)
			case config.ModeLambda:
				return runLambda(cmd, config.Lambda.Function)
			case config.ModeInvoke:
				return errors.New("invoke mode requires a function: use the invoke subcommand")
			default:
				return fmt.Errorf("invalid mode: %s", config.Global.Mode)
			}
		},
	}

	// Root command flags
	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "config.yaml", "path to the configuration file")

	// Local development: environment from an optional .env file
	_ = godotenv.Load()

	// Defaults; the configuration file is loaded once flags are parsed
	if err := config.SetDefaults(); err != nil {
		panic(err)
	}

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdLambda(),
		cmdService(),
		cmdInvoke(),
	)

	return cmd
}

func setupDynamicFlags(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(replacer)

	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapCount)
	bindEnvMap(cmd, lambdaEnvMapString)
}
