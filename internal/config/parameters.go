// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

// Runtime modes of the application.
const (
	ModeLambda  = "lambda"
	ModeService = "service"
	ModeInvoke  = "invoke"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// AWS is a struct that contains the configuration of the AWS clients.
	AWS aws
	// Archive is a struct that contains the configuration of the findings archive.
	Archive archive
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"lambda"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
}

type aws struct {
	// Region overrides the ambient region used when no FindingRegion is given.
	Region string `yaml:"region,omitempty"`
	// Profile selects a shared configuration profile.
	Profile string `yaml:"profile,omitempty"`
}

type archive struct {
	Enabled bool `yaml:"enabled,omitempty" default:"false"`
	// Bucket is the S3 bucket findings are archived to.
	Bucket string `yaml:"bucket,omitempty"`
	// BucketSSMParameter names an SSM parameter holding the bucket name. Exclusive with Bucket.
	BucketSSMParameter string `yaml:"bucketSSMParameter,omitempty"`
	Prefix             string `yaml:"prefix,omitempty" default:"findings/"`
}

type service struct {
	// Path is the base path the functions are served under.
	Path    string        `yaml:"path,omitempty" default:"/"`
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"5s"`
}

type lambda struct {
	// Function is the function started when the lambda mode is selected from the root command.
	Function string `yaml:"function,omitempty" default:"get-findings"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&AWS),
		defaults.Set(&Archive),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// LoadFromFile loads the configuration from a file. A missing file is ignored.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global  global  `yaml:"global,omitempty"`
		AWS     aws     `yaml:"aws,omitempty"`
		Archive archive `yaml:"archive,omitempty"`
		Service service `yaml:"service,omitempty"`
		Lambda  lambda  `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	AWS = a.AWS
	Archive = a.Archive
	Service = a.Service
	Lambda = a.Lambda

	return nil
}

// Validate checks the cross-field constraints of the loaded configuration.
func Validate() error {
	switch Global.Mode {
	case ModeLambda, ModeService, ModeInvoke:
	default:
		return fmt.Errorf("invalid mode: %s", Global.Mode)
	}
	if !Archive.Enabled {
		return nil
	}
	if Archive.Bucket == "" && Archive.BucketSSMParameter == "" {
		return errors.New("archive enabled without a bucket or bucket SSM parameter")
	}
	if Archive.Bucket != "" && Archive.BucketSSMParameter != "" {
		return errors.New("archive bucket and bucket SSM parameter are mutually exclusive")
	}
	return nil
}
