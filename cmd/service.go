package cmd

import (
	"context"
	"net"
	"net/http"
	"path"
	"strings"

	"github.com/isometry/guardduty-proxy-app/internal/config"
	"github.com/isometry/guardduty-proxy-app/internal/helpers"
	"github.com/isometry/guardduty-proxy-app/internal/metrics"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		Short:   "Serve the functions over HTTP",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runService(cmd)
		},
	}
	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapDuration)
	return cmd
}

func runService(cmd *cobra.Command) error {
	logger.Info("Spawning...")

	m := metrics.New()
	rt, err := setup(m)
	if err != nil {
		return errors.Wrap(err, "failed to setup service")
	}

	logger.Debug("Creating HTTP server...")
	h := newServeMux(config.Service.Path, rt, m.Handler())

	s := &http.Server{
		Handler:      h,
		Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
		WriteTimeout: config.Service.Timeout,
		ReadTimeout:  config.Service.Timeout,
		IdleTimeout:  config.Service.Timeout,
	}

	go func() {
		<-cmd.Context().Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Service.Timeout)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving...", "address", s.Addr, "path", config.Service.Path, "timeout", config.Service.Timeout.String())
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newServeMux routes the functions under basePath and the metrics endpoint at basePath/metrics.
func newServeMux(basePath string, functions, metricsHandler http.Handler) *http.ServeMux {
	base := helpers.BasePath(basePath)
	mux := http.NewServeMux()
	mux.Handle("GET "+path.Join(base, "metrics"), metricsHandler)
	mux.Handle(strings.TrimSuffix(base, "/")+"/", functions)
	return mux
}
